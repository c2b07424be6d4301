// Package web exposes the download surface: GET /dl/{id}/{filename} with
// full HTTP range semantics, and GET /health.
package web

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/logging"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/transfer"
	"github.com/gin-gonic/gin"
)

const notFoundBody = "File not found or link expired"

// Registry is the read side of the link registry.
type Registry interface {
	Lookup(ctx context.Context, id string) (*models.LinkEntry, error)
}

// Opener opens a byte range of a registered entry.
type Opener interface {
	Open(ctx context.Context, entry *models.LinkEntry, start, end int64) (io.ReadCloser, error)
}

type Server struct {
	addr      string
	registry  Registry
	source    Opener
	log       logging.Logger
	chunkSize int
	engine    *gin.Engine
}

func NewServer(addr string, registry Registry, source Opener, log logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:      addr,
		registry:  registry,
		source:    source,
		log:       log.With("module", "web"),
		chunkSize: transfer.DefaultChunkSize,
	}

	engine := gin.New()
	engine.GET("/dl/:id/:filename", s.handleDownload)
	engine.GET("/health", s.handleHealth)
	s.engine = engine

	return s
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	go func() {
		<-ctx.Done()
		s.log.Info(ctx, "Stopping HTTP server...")
		_ = srv.Shutdown(context.Background())
	}()

	s.log.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// handleDownload walks the request through resolve → range negotiation →
// streaming. The filename path segment is decorative; lookup uses only the
// id.
func (s *Server) handleDownload(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	entry, err := s.registry.Lookup(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "registry lookup failed", "id", id, "error", err)
		}
		c.String(http.StatusNotFound, notFoundBody)
		return
	}

	rng, err := negotiateRange(c.GetHeader("Range"), entry.SizeBytes)
	if err != nil {
		c.Header("Content-Range", "bytes */"+strconv.FormatInt(entry.SizeBytes, 10))
		c.String(http.StatusRequestedRangeNotSatisfiable, "Requested range not satisfiable")
		return
	}

	rc, err := s.source.Open(ctx, entry, rng.start, rng.end)
	if err != nil {
		s.failOpen(c, entry, err)
		return
	}
	defer rc.Close()

	status := http.StatusOK
	if rng.partial {
		status = http.StatusPartialContent
		c.Header("Content-Range", rng.contentRange(entry.SizeBytes))
	}

	c.Header("Content-Type", entry.MimeType)
	c.Header("Content-Length", strconv.FormatInt(rng.length(), 10))
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": entry.FileName}))
	c.Header("Accept-Ranges", "bytes")
	c.Status(status)

	s.stream(c, entry, rc, rng.length())
}

// failOpen maps source-open failures to client responses. Nothing has been
// written yet at this point, so a clean status line is still possible.
func (s *Server) failOpen(c *gin.Context, entry *models.LinkEntry, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, common.ErrorLocalIO):
		// Registry/filesystem consistency violation: the entry claims a
		// local copy that cannot be read. The client just sees a dead link.
		s.log.Error(ctx, "cache file unreadable despite registry entry", "id", entry.ID, "error", err)
		c.String(http.StatusNotFound, notFoundBody)
	case errors.Is(err, common.ErrorNotReady):
		c.Header("Retry-After", "5")
		c.String(http.StatusServiceUnavailable, "File is still being prepared, retry shortly")
	default:
		s.log.Error(ctx, "upstream open failed", "id", entry.ID, "error", err)
		c.String(http.StatusBadGateway, "Upstream transfer failed")
	}
}

// stream copies the negotiated range to the client in bounded chunks. A
// failed write means the client went away: stop reading and release the
// source. A short or failed read after the headers are out must not produce
// a body that quietly disagrees with Content-Length, so the connection is
// aborted instead.
func (s *Server) stream(c *gin.Context, entry *models.LinkEntry, rc io.ReadCloser, want int64) {
	ctx := c.Request.Context()

	var written int64
	buf := make([]byte, s.chunkSize)

	for {
		n, rerr := rc.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				s.log.Debug(ctx, "client disconnected", "id", entry.ID, "written", written)
				return
			}
			c.Writer.Flush()
			written += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			s.log.Error(ctx, "stream read failed", "id", entry.ID, "written", written, "error", rerr)
			panic(http.ErrAbortHandler)
		}
	}

	if written != want {
		s.log.Error(ctx, "stream truncated", "id", entry.ID, "written", written, "want", want)
		panic(http.ErrAbortHandler)
	}
}

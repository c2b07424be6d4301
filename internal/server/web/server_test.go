package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/logging"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type fakeRegistry struct {
	entries map[string]models.LinkEntry
}

func (f *fakeRegistry) Lookup(ctx context.Context, id string) (*models.LinkEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &e, nil
}

type fakeOpener struct {
	data  []byte
	err   error
	calls int
	start int64
	end   int64

	lastStream *trackingReadCloser
}

func (f *fakeOpener) Open(ctx context.Context, entry *models.LinkEntry, start, end int64) (io.ReadCloser, error) {
	f.calls++
	f.start, f.end = start, end
	if f.err != nil {
		return nil, f.err
	}
	f.lastStream = &trackingReadCloser{r: bytes.NewReader(f.data[start : end+1])}
	return f.lastStream, nil
}

type trackingReadCloser struct {
	r      io.Reader
	closed bool
}

func (t *trackingReadCloser) Read(p []byte) (int, error) { return t.r.Read(p) }
func (t *trackingReadCloser) Close() error               { t.closed = true; return nil }

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testEntry() models.LinkEntry {
	return models.LinkEntry{
		ID:          "abc123def456",
		FileName:    "report.pdf",
		SizeBytes:   1000,
		MimeType:    "application/pdf",
		UpstreamRef: "ref-1",
	}
}

func newTestServer(opener *fakeOpener) *Server {
	entry := testEntry()
	reg := &fakeRegistry{entries: map[string]models.LinkEntry{entry.ID: entry}}
	return NewServer(":0", reg, opener, discardLogger())
}

func doRequest(s *Server, target, rangeHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// -------- handler --------

func TestDownload_FullContent(t *testing.T) {
	data := pattern(1000)
	opener := &fakeOpener{data: data}
	s := newTestServer(opener)

	w := doRequest(s, "/dl/abc123def456/report.pdf", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "1000", w.Header().Get("Content-Length"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, "attachment; filename=report.pdf", w.Header().Get("Content-Disposition"))
	assert.Empty(t, w.Header().Get("Content-Range"))
	assert.Equal(t, data, w.Body.Bytes())
}

func TestDownload_PartialContent(t *testing.T) {
	data := pattern(1000)
	opener := &fakeOpener{data: data}
	s := newTestServer(opener)

	w := doRequest(s, "/dl/abc123def456/report.pdf", "bytes=200-499")

	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 200-499/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, "300", w.Header().Get("Content-Length"))
	assert.Equal(t, int64(200), opener.start)
	assert.Equal(t, int64(499), opener.end)
	assert.Equal(t, data[200:500], w.Body.Bytes())
}

func TestDownload_OpenEndedRange(t *testing.T) {
	data := pattern(1000)
	s := newTestServer(&fakeOpener{data: data})

	w := doRequest(s, "/dl/abc123def456/report.pdf", "bytes=900-")

	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 900-999/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, data[900:], w.Body.Bytes())
}

func TestDownload_MultiRangeFallsBackToFullContent(t *testing.T) {
	data := pattern(1000)
	s := newTestServer(&fakeOpener{data: data})

	w := doRequest(s, "/dl/abc123def456/report.pdf", "bytes=0-99,500-599")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, data, w.Body.Bytes())
}

func TestDownload_UnknownID(t *testing.T) {
	opener := &fakeOpener{data: pattern(10)}
	s := newTestServer(opener)

	w := doRequest(s, "/dl/000000000000/report.pdf", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, notFoundBody, w.Body.String())
	assert.Zero(t, opener.calls, "unknown ids must not open a source")
}

func TestDownload_UnsatisfiableRange(t *testing.T) {
	opener := &fakeOpener{data: pattern(1000)}
	s := newTestServer(opener)

	for _, header := range []string{"bytes=0-5000", "bytes=1000-", "bytes=abc-def", "bytes=500-200"} {
		w := doRequest(s, "/dl/abc123def456/report.pdf", header)

		require.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code, header)
		assert.Equal(t, "bytes */1000", w.Header().Get("Content-Range"), header)
	}
	assert.Zero(t, opener.calls, "rejected ranges must not open a source")
}

func TestDownload_NotReady(t *testing.T) {
	s := newTestServer(&fakeOpener{err: common.ErrorNotReady})

	w := doRequest(s, "/dl/abc123def456/report.pdf", "")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "5", w.Header().Get("Retry-After"))
}

func TestDownload_MissingCacheFileReportsNotFound(t *testing.T) {
	s := newTestServer(&fakeOpener{err: common.ErrorLocalIO})

	w := doRequest(s, "/dl/abc123def456/report.pdf", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, notFoundBody, w.Body.String())
}

func TestDownload_UpstreamFailure(t *testing.T) {
	s := newTestServer(&fakeOpener{err: errors.New("flood wait")})

	w := doRequest(s, "/dl/abc123def456/report.pdf", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestDownload_TruncatedSourceAbortsConnection(t *testing.T) {
	// The opener yields fewer bytes than the negotiated length. The headers
	// are already written, so the handler must kill the connection rather
	// than finish a short body with a clean EOF.
	opener := &fakeOpener{data: pattern(1000)}
	opener.data = opener.data[:400]
	reg := &fakeRegistry{entries: map[string]models.LinkEntry{"abc123def456": testEntry()}}
	s := NewServer(":0", reg, &shortOpener{opener}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/dl/abc123def456/report.pdf", nil)
	w := httptest.NewRecorder()

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		s.Handler().ServeHTTP(w, req)
	})
}

// shortOpener ignores the requested end so the stream can come up short.
type shortOpener struct {
	inner *fakeOpener
}

func (s *shortOpener) Open(ctx context.Context, entry *models.LinkEntry, start, end int64) (io.ReadCloser, error) {
	return s.inner.Open(ctx, entry, start, int64(len(s.inner.data))-1)
}

func TestDownload_ClientDisconnectReleasesSource(t *testing.T) {
	opener := &fakeOpener{data: pattern(1000)}
	s := newTestServer(opener)

	w := &failingWriter{ResponseRecorder: httptest.NewRecorder()}
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/dl/abc123def456/report.pdf", nil)
	c.Params = gin.Params{
		{Key: "id", Value: "abc123def456"},
		{Key: "filename", Value: "report.pdf"},
	}

	assert.NotPanics(t, func() { s.handleDownload(c) })
	require.NotNil(t, opener.lastStream)
	assert.True(t, opener.lastStream.closed, "source must be closed when the client goes away")
}

// failingWriter rejects every body write, standing in for a closed client
// connection.
type failingWriter struct {
	*httptest.ResponseRecorder
}

func (f *failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

// -------- health --------

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeOpener{})

	w := doRequest(s, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

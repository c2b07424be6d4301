package transfer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type fakeUpstream struct {
	data    []byte
	err     error
	streams []*trackingReadCloser
}

func (f *fakeUpstream) FetchStream(ctx context.Context, ref string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	rc := &trackingReadCloser{r: bytes.NewReader(f.data)}
	f.streams = append(f.streams, rc)
	return rc, nil
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

func writeCacheFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cached.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// -------- CachedSource --------

func TestCachedSource_FullRange(t *testing.T) {
	data := pattern(1000)
	entry := &models.LinkEntry{SizeBytes: 1000, LocalPath: writeCacheFile(t, data)}

	rc, err := NewCachedSource().Open(context.Background(), entry, 0, 999)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCachedSource_SubRange(t *testing.T) {
	data := pattern(1000)
	entry := &models.LinkEntry{SizeBytes: 1000, LocalPath: writeCacheFile(t, data)}

	rc, err := NewCachedSource().Open(context.Background(), entry, 200, 499)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Len(t, got, 300)
	assert.Equal(t, data[200:500], got)
}

func TestCachedSource_MissingFile(t *testing.T) {
	entry := &models.LinkEntry{SizeBytes: 10, LocalPath: filepath.Join(t.TempDir(), "gone.bin")}

	_, err := NewCachedSource().Open(context.Background(), entry, 0, 9)
	assert.ErrorIs(t, err, common.ErrorLocalIO)
}

// -------- LiveSource --------

func TestLiveSource_StreamsFromZero(t *testing.T) {
	data := pattern(1000)
	up := &fakeUpstream{data: data}
	entry := &models.LinkEntry{SizeBytes: 1000, UpstreamRef: "ref-1"}

	rc, err := NewLiveSource(up).Open(context.Background(), entry, 0, 999)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLiveSource_DiscardsLeadingBytes(t *testing.T) {
	data := pattern(1000)
	up := &fakeUpstream{data: data}
	entry := &models.LinkEntry{SizeBytes: 1000, UpstreamRef: "ref-1"}

	rc, err := NewLiveSource(up).Open(context.Background(), entry, 200, 499)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data[200:500], got, "leading bytes must be skipped, not served")
}

func TestLiveSource_UpstreamError(t *testing.T) {
	up := &fakeUpstream{err: errors.New("flood wait")}
	entry := &models.LinkEntry{SizeBytes: 10, UpstreamRef: "ref-1"}

	_, err := NewLiveSource(up).Open(context.Background(), entry, 0, 9)
	assert.ErrorIs(t, err, common.ErrorUpstreamUnavailable)
}

func TestLiveSource_ShortUpstreamDuringSkip(t *testing.T) {
	up := &fakeUpstream{data: pattern(100)}
	entry := &models.LinkEntry{SizeBytes: 1000, UpstreamRef: "ref-1"}

	_, err := NewLiveSource(up).Open(context.Background(), entry, 500, 999)
	assert.ErrorIs(t, err, common.ErrorUpstreamUnavailable)
	require.Len(t, up.streams, 1)
	assert.True(t, up.streams[0].closed, "stream must be released on skip failure")
}

// -------- Selector --------

func TestSelector_PrefersCachedCopy(t *testing.T) {
	data := pattern(100)
	up := &fakeUpstream{data: pattern(100)}
	entry := &models.LinkEntry{
		SizeBytes: 100,
		LocalPath: writeCacheFile(t, data),
	}

	rc, err := NewSelector(up).Open(context.Background(), entry, 0, 99)
	require.NoError(t, err)
	defer rc.Close()

	assert.Empty(t, up.streams, "cached entries must not hit the upstream")
}

func TestSelector_FallsBackToLive(t *testing.T) {
	data := pattern(100)
	up := &fakeUpstream{data: data}
	entry := &models.LinkEntry{SizeBytes: 100, UpstreamRef: "ref-1"}

	rc, err := NewSelector(up).Open(context.Background(), entry, 0, 99)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSelector_NoUpstreamReportsNotReady(t *testing.T) {
	entry := &models.LinkEntry{SizeBytes: 100, UpstreamRef: "ref-1"}

	_, err := NewSelector(nil).Open(context.Background(), entry, 0, 99)
	assert.ErrorIs(t, err, common.ErrorNotReady)
}

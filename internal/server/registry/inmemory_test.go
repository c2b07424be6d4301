package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(id string) *models.LinkEntry {
	return &models.LinkEntry{
		ID:          id,
		FileName:    "report.pdf",
		SizeBytes:   1000,
		MimeType:    "application/pdf",
		UpstreamRef: "ref-" + id,
		CreatedAt:   time.Now(),
	}
}

func TestInMemory_InsertIfAbsent_KeepsFirstEntry(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	first, err := repo.InsertIfAbsent(ctx, testEntry("aaa"))
	require.NoError(t, err)

	second := testEntry("aaa")
	second.FileName = "other.bin"
	got, err := repo.InsertIfAbsent(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, first.FileName, got.FileName, "existing entry must win")
}

func TestInMemory_InsertIfAbsent_ConcurrentSameID(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	const goroutines = 32
	var wg sync.WaitGroup
	ids := make([]string, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := repo.InsertIfAbsent(ctx, testEntry("bbb"))
			if err == nil {
				ids[i] = e.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, "bbb", id)
	}

	entry, err := repo.GetByID(ctx, "bbb")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", entry.FileName)
}

func TestInMemory_AttachLocalPath(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.InsertIfAbsent(ctx, testEntry("ccc"))
	require.NoError(t, err)

	require.NoError(t, repo.AttachLocalPath(ctx, "ccc", "/tmp/files/ccc_report.pdf"))

	entry, err := repo.GetByID(ctx, "ccc")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/files/ccc_report.pdf", entry.LocalPath)
	assert.True(t, entry.Cached())
}

func TestInMemory_AttachLocalPath_UnknownID(t *testing.T) {
	repo := NewInMemoryRepository()
	err := repo.AttachLocalPath(context.Background(), "nope", "/tmp/x")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_GetByID_Unknown(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_GetByID_ReturnsCopy(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.InsertIfAbsent(ctx, testEntry("ddd"))
	require.NoError(t, err)

	entry, err := repo.GetByID(ctx, "ddd")
	require.NoError(t, err)
	entry.LocalPath = "/mutated/elsewhere"

	again, err := repo.GetByID(ctx, "ddd")
	require.NoError(t, err)
	assert.Empty(t, again.LocalPath, "callers must not mutate stored state")
}

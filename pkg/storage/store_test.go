package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(config.LocalStorageConfig{StorageDir: dir})
	require.NoError(t, err)
	return store
}

func TestOpenCreatesDirectoryLayout(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(config.LocalStorageConfig{StorageDir: dir})
	require.NoError(t, err)

	for _, sub := range []string{"raw_files", "knowledges", "embeddings", "extra"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestStoreAndGetRawFileByContent(t *testing.T) {
	store := newTestStore(t)

	path, err := store.StoreRawFile("abc123", "", []byte("pdf bytes"), ".pdf")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path) || filepath.IsAbs(filepath.Dir(path)))

	got, ok := store.GetRawFile("abc123")
	require.True(t, ok)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestStoreRawFileRejectsBothOrNeither(t *testing.T) {
	store := newTestStore(t)

	_, err := store.StoreRawFile("x", "", nil, "")
	assert.Error(t, err)

	_, err = store.StoreRawFile("x", "/some/path", []byte("data"), "")
	assert.Error(t, err)
}

func TestGetRawFileSelfHealsOnMissingFileThenFallbackScan(t *testing.T) {
	store := newTestStore(t)

	_, err := store.StoreRawFile("doc1", "", []byte("content"), ".pdf")
	require.NoError(t, err)

	// Simulate external deletion of the index entry only, leaving the file.
	store.rawFilesMu.Lock()
	delete(store.rawFiles, "doc1")
	store.rawFilesMu.Unlock()

	path, ok := store.GetRawFile("doc1")
	require.True(t, ok)
	assert.Contains(t, path, "doc1")

	store.rawFilesMu.Lock()
	_, backfilled := store.rawFiles["doc1"]
	store.rawFilesMu.Unlock()
	assert.True(t, backfilled)
}

func TestGetRawFilePrunesStaleEntryOnDeletedFile(t *testing.T) {
	store := newTestStore(t)

	path, err := store.StoreRawFile("doc2", "", []byte("content"), ".pdf")
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	_, ok := store.GetRawFile("doc2")
	assert.False(t, ok)

	store.rawFilesMu.Lock()
	_, stillIndexed := store.rawFiles["doc2"]
	store.rawFilesMu.Unlock()
	assert.False(t, stillIndexed)
}

func TestStoreAndGetKnowledgeRoundTrip(t *testing.T) {
	store := newTestStore(t)

	paper := model.NewPaper()
	paper.Title = "Attention Is All You Need"
	paper.ArxivID = "1706.03762"
	paper.Source = "arxiv"

	require.NoError(t, store.StoreKnowledge(paper))

	got, ok := store.GetKnowledge("1706.03762")
	require.True(t, ok)

	gotPaper, ok := got.(*model.Paper)
	require.True(t, ok)
	assert.Equal(t, paper.Title, gotPaper.Title)
}

func TestStoreKnowledgeOverwritesDuplicateID(t *testing.T) {
	store := newTestStore(t)

	first := model.NewPaper()
	first.Title = "v1"
	first.ArxivID = "dup"
	require.NoError(t, store.StoreKnowledge(first))

	second := model.NewPaper()
	second.Title = "v2"
	second.ArxivID = "dup"
	require.NoError(t, store.StoreKnowledge(second))

	got, ok := store.GetKnowledge("dup")
	require.True(t, ok)
	assert.Equal(t, "v2", got.Base().Title)
}

func TestStoreAndGetEmbedding(t *testing.T) {
	store := newTestStore(t)

	rec := EmbeddingRecord{KnowledgeID: "k1", Embedding: []float64{0.1, 0.2}, Model: "text-embedding-3-small"}
	require.NoError(t, store.StoreEmbedding(rec))

	got, ok := store.GetEmbedding("k1")
	require.True(t, ok)
	assert.Equal(t, rec.Embedding, got.Embedding)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestExtraRoundTrip(t *testing.T) {
	store := newTestStore(t)

	type payload struct {
		Count int `json:"count"`
	}

	require.NoError(t, store.StoreExtra("stats", payload{Count: 5}))

	var got payload
	found, err := store.GetExtra("stats", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 5, got.Count)

	require.NoError(t, store.DeleteExtra("stats"))
	found, err = store.GetExtra("stats", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProcessKnowledgeStoresRecordEvenWhenDownloadFails(t *testing.T) {
	store := newTestStore(t)

	paper := model.NewPaper()
	paper.Title = "unreachable"
	paper.ArxivID = "unreachable-1"
	paper.PDFURL = "http://127.0.0.1:1/does-not-exist.pdf"

	err := store.ProcessKnowledge(context.Background(), paper)
	require.NoError(t, err)

	_, ok := store.GetKnowledge("unreachable-1")
	assert.True(t, ok)

	_, hasFile := store.GetRawFile("unreachable-1")
	assert.False(t, hasFile)
}

func TestProcessKnowledgesPreservesOrder(t *testing.T) {
	store := newTestStore(t)

	items := make([]model.KnowledgeItem, 5)
	for i := range items {
		p := model.NewPaper()
		p.Title = "paper"
		p.ArxivID = string(rune('a' + i))
		items[i] = p
	}

	errs := store.ProcessKnowledges(context.Background(), items)
	require.Len(t, errs, 5)
	for _, err := range errs {
		assert.NoError(t, err)
	}

	for i := range items {
		_, ok := store.GetKnowledge(string(rune('a' + i)))
		assert.True(t, ok)
	}
}

func TestGetAllKnowledgesSnapshotsBeforeIterating(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		p := model.NewPaper()
		p.Title = id
		p.ArxivID = id
		require.NoError(t, store.StoreKnowledge(p))
	}

	seen := map[string]bool{}
	for item := range store.GetAllKnowledges() {
		seen[item.GetPrimaryID()] = true
	}

	assert.Len(t, seen, 3)
	assert.True(t, seen["a"] && seen["b"] && seen["c"])
}

func TestGetAllKnowledgesStopsOnYieldFalse(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		p := model.NewPaper()
		p.Title = id
		p.ArxivID = id
		require.NoError(t, store.StoreKnowledge(p))
	}

	count := 0
	for range store.GetAllKnowledges() {
		count++
		if count == 1 {
			break
		}
	}
	assert.Equal(t, 1, count)
}

func TestRebuildAllIndexesRecoversFromMissingIndexFiles(t *testing.T) {
	store := newTestStore(t)

	p := model.NewPaper()
	p.Title = "x"
	p.ArxivID = "rebuild-1"
	require.NoError(t, store.StoreKnowledge(p))

	require.NoError(t, os.Remove(store.indexPath(knowledgesIndexName)))

	store.knowledges = map[string]knowledgeEntry{}

	require.NoError(t, store.RebuildAllIndexes())

	got, ok := store.GetKnowledge("rebuild-1")
	require.True(t, ok)
	assert.Equal(t, "x", got.Base().Title)
}

package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/llmquant/quantmind/pkg/model"
	"golang.org/x/sync/errgroup"
)

// ProcessKnowledge stores item and, for a Paper with no raw file already
// present and a set PDFURL, attempts one best-effort HTTP GET within the
// store's download timeout. Any download failure is logged and swallowed —
// the knowledge record is stored either way.
func (s *Store) ProcessKnowledge(ctx context.Context, item model.KnowledgeItem) error {
	if err := s.StoreKnowledge(item); err != nil {
		return fmt.Errorf("storage: process knowledge: %w", err)
	}

	paper, ok := item.(*model.Paper)
	if !ok || paper.PDFURL == "" {
		return nil
	}

	if _, found := s.GetRawFile(paper.GetPrimaryID()); found {
		return nil
	}

	s.downloadPDFBestEffort(ctx, paper)
	return nil
}

func (s *Store) downloadPDFBestEffort(ctx context.Context, paper *model.Paper) {
	dlCtx, cancel := context.WithTimeout(ctx, s.downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, paper.PDFURL, nil)
	if err != nil {
		slog.Warn("storage: build pdf download request failed", "id", paper.GetPrimaryID(), "url", paper.PDFURL, "error", err)
		return
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Warn("storage: pdf download failed", "id", paper.GetPrimaryID(), "url", paper.PDFURL, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("storage: pdf download returned non-2xx", "id", paper.GetPrimaryID(), "url", paper.PDFURL, "status", resp.StatusCode)
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("storage: pdf download read failed", "id", paper.GetPrimaryID(), "url", paper.PDFURL, "error", err)
		return
	}

	if _, err := s.StoreRawFile(paper.GetPrimaryID(), "", data, ".pdf"); err != nil {
		slog.Warn("storage: pdf download store failed", "id", paper.GetPrimaryID(), "error", err)
	}
}

// maxConcurrentDownloads bounds ProcessKnowledges' parallel raw-file
// downloads. Writes against distinct knowledge IDs commute (spec.md §5),
// so independent items may download concurrently; this cap keeps a large
// batch from opening hundreds of sockets at once.
const maxConcurrentDownloads = 8

// ProcessKnowledges is an ordered fold over ProcessKnowledge: every item is
// stored, and any eligible PDF downloads happen concurrently (bounded),
// but the returned error slice is indexed by input position, not
// completion order.
func (s *Store) ProcessKnowledges(ctx context.Context, items []model.KnowledgeItem) []error {
	errs := make([]error, len(items))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentDownloads)

	for i, item := range items {
		i, item := i, item
		group.Go(func() error {
			errs[i] = s.ProcessKnowledge(groupCtx, item)
			return nil
		})
	}

	_ = group.Wait()
	return errs
}

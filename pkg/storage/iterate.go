package storage

import (
	"iter"

	"github.com/llmquant/quantmind/pkg/model"
)

// GetAllKnowledges returns a lazy sequence over every indexed knowledge
// item. Per the concurrent-mutation open question, the index keys are
// snapshotted under the index lock before iteration begins, so a writer
// mutating the index mid-iteration cannot corrupt the traversal; an item
// deleted after the snapshot is taken is simply skipped (its lookup misses)
// rather than raising.
func (s *Store) GetAllKnowledges() iter.Seq[model.KnowledgeItem] {
	s.knowledgesMu.Lock()
	ids := make([]string, 0, len(s.knowledges))
	for id := range s.knowledges {
		ids = append(ids, id)
	}
	s.knowledgesMu.Unlock()

	return func(yield func(model.KnowledgeItem) bool) {
		for _, id := range ids {
			item, ok := s.GetKnowledge(id)
			if !ok {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

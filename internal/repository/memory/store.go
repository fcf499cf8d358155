// Package memory implements the repositories with in-process maps. It backs
// STORE=memory for local runs and the handler and service tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"
)

// Store holds every collection behind one lock
type Store struct {
	mu       sync.RWMutex
	projects map[string]*models.Project
	images   map[string]*models.Image
	feedback map[string]*models.Feedback
	comments map[string]*models.Comment

	// txMu serializes ExecTx blocks
	txMu sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		projects: make(map[string]*models.Project),
		images:   make(map[string]*models.Image),
		feedback: make(map[string]*models.Feedback),
		comments: make(map[string]*models.Comment),
	}
}

// Repositories returns all repository views of the store
func (s *Store) Repositories() *repositories.Set {
	return &repositories.Set{
		Projects:  &ProjectRepository{s},
		Images:    &ImageRepository{s},
		Feedback:  &FeedbackRepository{s},
		Comments:  &CommentRepository{s},
		TxManager: &TransactionManager{s},
	}
}

// TransactionManager runs blocks one at a time. There is no rollback: a
// failing block leaves earlier writes in place.
type TransactionManager struct {
	s *Store
}

type txKey struct{}

// ExecTx runs fn while holding the store's transaction lock. Nested calls
// reuse the outer block.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	tm.s.txMu.Lock()
	defer tm.s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

// paginate slices a sorted result set
func paginate[T any](items []T, p models.Pagination) []T {
	offset := p.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Limit > 0 && offset+p.Limit < end {
		end = offset + p.Limit
	}
	return items[offset:end]
}

// newestFirst orders by created time descending, then id
func newestFirst[T any](items []T, key func(T) (int64, string)) {
	slices.SortFunc(items, func(a, b T) int {
		at, aid := key(a)
		bt, bid := key(b)
		if c := cmp.Compare(bt, at); c != 0 {
			return c
		}
		return cmp.Compare(aid, bid)
	})
}

// oldestFirst orders by created time ascending, then id
func oldestFirst[T any](items []T, key func(T) (int64, string)) {
	slices.SortFunc(items, func(a, b T) int {
		at, aid := key(a)
		bt, bid := key(b)
		if c := cmp.Compare(at, bt); c != 0 {
			return c
		}
		return cmp.Compare(aid, bid)
	})
}

// Package dataloader provides per-request DataLoaders that batch comment
// count lookups issued by one HTTP request into a single query.
package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/internal/service/comment"
)

const (
	defaultMaxBatch = 100
	wait            = 2 * time.Millisecond
)

type commentCounter interface {
	Counts(ctx context.Context, input comment.CountsInput) ([]domain.CommentCount, error)
}

// Loaders holds the per-request DataLoader instances.
type Loaders struct {
	CommentCountByEntity *dataloader.Loader[domain.EntityRef, int]
}

// NewLoaders creates a new set of DataLoaders. Must be called per-request
// (loaders cache results within a single request). maxBatch <= 0 uses the
// default capacity.
func NewLoaders(counter commentCounter, maxBatch int) *Loaders {
	if maxBatch <= 0 {
		maxBatch = defaultMaxBatch
	}
	return &Loaders{
		CommentCountByEntity: dataloader.NewBatchedLoader(
			newCommentCountBatchFn(counter),
			dataloader.WithWait[domain.EntityRef, int](wait),
			dataloader.WithBatchCapacity[domain.EntityRef, int](maxBatch),
		),
	}
}

func newCommentCountBatchFn(counter commentCounter) dataloader.BatchFunc[domain.EntityRef, int] {
	return func(ctx context.Context, keys []domain.EntityRef) []*dataloader.Result[int] {
		counts, err := counter.Counts(ctx, comment.CountsInput{Entities: keys})
		if err != nil {
			return errorResults[int](len(keys), err)
		}

		grouped := make(map[domain.EntityRef]int, len(counts))
		for _, c := range counts {
			grouped[c.Entity] = c.Count
		}

		results := make([]*dataloader.Result[int], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[int]{Data: grouped[key]}
		}
		return results
	}
}

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present (indicates middleware misconfiguration).
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context, is middleware configured?")
	}
	return l
}

// Middleware creates an HTTP middleware that instantiates per-request
// DataLoaders and stores them in the request context.
func Middleware(counter commentCounter, maxBatch int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(counter, maxBatch))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

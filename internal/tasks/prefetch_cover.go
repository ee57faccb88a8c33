package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CoverFetcher fetches and caches a book cover, returning the cached path.
type CoverFetcher interface {
	Get(bookID uint, coverURL string) (string, error)
}

// PrefetchCoverTask downloads a book's cover into the local cache so the
// first catalog view doesn't pay for the upstream fetch.
type PrefetchCoverTask struct {
	BookID   uint   `json:"book_id"`
	CoverURL string `json:"cover_url"`
}

// Config returns the queue configuration for cover prefetch tasks.
func (t PrefetchCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prefetch_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PrefetchCoverProcessor creates a processor function for PrefetchCoverTask.
func PrefetchCoverProcessor(fetcher CoverFetcher) backlite.QueueProcessor[PrefetchCoverTask] {
	return func(ctx context.Context, task PrefetchCoverTask) error {
		if fetcher == nil {
			return fmt.Errorf("cover fetcher not configured")
		}
		if task.CoverURL == "" {
			return nil
		}

		path, err := fetcher.Get(task.BookID, task.CoverURL)
		if err != nil {
			return fmt.Errorf("prefetch cover for book %d: %w", task.BookID, err)
		}

		log.Printf("[TASK] Prefetched cover for book %d to %s", task.BookID, path)
		return nil
	}
}

// NewPrefetchCoverQueue creates a backlite queue for cover prefetch tasks.
func NewPrefetchCoverQueue(fetcher CoverFetcher) backlite.Queue {
	return backlite.NewQueue(PrefetchCoverProcessor(fetcher))
}

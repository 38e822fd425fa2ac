package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"lion_estate/internal/domain"
)

// ImportResult counts the outcome of a catalogue import.
type ImportResult struct {
	Created int
	Updated int
	Failed  int
}

// Import upserts each item by slug, running at most workers at once.
// Per-item failures are logged and counted; only a cancelled context aborts.
func (s *PropertyService) Import(ctx context.Context, items []PropertyInput, workers int) (ImportResult, error) {
	if workers <= 0 {
		workers = 4
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		res ImportResult
	)

	for i, in := range items {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return res, err
		}
		wg.Add(1)
		go func(i int, in PropertyInput) {
			defer wg.Done()
			defer sem.Release(1)

			created, err := s.importOne(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Failed++
				log.Warn().Err(err).Int("index", i).Str("slug", in.Slug).Msg("import item failed")
			case created:
				res.Created++
			default:
				res.Updated++
			}
		}(i, in)
	}

	wg.Wait()
	return res, nil
}

func (s *PropertyService) importOne(ctx context.Context, in PropertyInput) (bool, error) {
	existing, err := s.repo.GetBySlug(ctx, in.Slug, s.defaultLocale)
	if errors.Is(err, domain.ErrNotFound) {
		_, err = s.Create(ctx, in)
		return true, err
	}
	if err != nil {
		return false, err
	}
	_, err = s.Update(ctx, existing.ID, in)
	return false, err
}

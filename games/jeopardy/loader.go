/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultPoolSize is how many category ids are requested before sampling.
const DefaultPoolSize = 80

// Source is a provider of trivia categories.
type Source interface {
	// CategoryIDs returns up to count category ids to sample from.
	CategoryIDs(ctx context.Context, count int) ([]int, error)

	// Category returns the title and clues of a single category.
	Category(ctx context.Context, id int) (CategoryRecord, error)
}

// FetchFunc retrieves the records for ids, in the order of ids.
type FetchFunc func(ctx context.Context, src Source, ids []int) ([]CategoryRecord, error)

// FetchSequential requests one category at a time, in order.
func FetchSequential(ctx context.Context, src Source, ids []int) ([]CategoryRecord, error) {
	records := make([]CategoryRecord, 0, len(ids))

	for _, id := range ids {
		rec, err := src.Category(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("category %d: %w", id, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// FetchConcurrent returns a FetchFunc that requests up to limit categories
// at once. Results keep the order of ids.
func FetchConcurrent(limit int) FetchFunc {
	return func(ctx context.Context, src Source, ids []int) ([]CategoryRecord, error) {
		records := make([]CategoryRecord, len(ids))

		g, ctx := errgroup.WithContext(ctx)
		if limit > 0 {
			g.SetLimit(limit)
		}

		for i, id := range ids {
			g.Go(func() error {
				rec, err := src.Category(ctx, id)
				if err != nil {
					return fmt.Errorf("category %d: %w", id, err)
				}
				records[i] = rec
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		return records, nil
	}
}

// Loader draws the categories for a new game.
type Loader struct {
	Source Source

	// PoolSize is the number of ids requested from Source; Width of them
	// are sampled. Zero means DefaultPoolSize.
	PoolSize int
	Width    int

	// Fetch defaults to FetchSequential.
	Fetch FetchFunc

	// IntN is handed to SampleWithoutReplacement.
	IntN func(n int) int
}

// Load picks Width random categories and fetches them.
func (l *Loader) Load(ctx context.Context) ([]CategoryRecord, error) {
	pool := l.PoolSize
	if pool == 0 {
		pool = DefaultPoolSize
	}

	ids, err := l.Source.CategoryIDs(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("category ids: %w", err)
	}

	chosen, err := SampleWithoutReplacement(ids, l.Width, l.IntN)
	if err != nil {
		return nil, fmt.Errorf("choosing %d categories: %w", l.Width, err)
	}

	fetch := l.Fetch
	if fetch == nil {
		fetch = FetchSequential
	}

	return fetch(ctx, l.Source, chosen)
}

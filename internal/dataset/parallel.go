package dataset

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// GenerateParallel generates n rows across the given number of worker
// shards. Each shard draws from an independent deterministic stream, so the
// combined output is reproducible for a given (seed, workers) pair
// regardless of scheduling.
//
// Rows are returned in shard order. workers < 1 falls back to a single
// shard. Cancellation stops generation between batches and returns ctx.Err().
func GenerateParallel(ctx context.Context, seed uint64, n, workers int) ([]Row, error) {
	if n <= 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	// Split n across shards; the first n%workers shards take one extra row.
	counts := make([]int, workers)
	base := n / workers
	for i := range counts {
		counts[i] = base
		if i < n%workers {
			counts[i]++
		}
	}

	shards := make([][]Row, workers)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			gen := NewShard(seed, uint64(i)+1)
			rows := make([]Row, 0, counts[i])

			const batch = 1024
			for len(rows) < counts[i] {
				if err := ctx.Err(); err != nil {
					return err
				}
				remaining := counts[i] - len(rows)
				if remaining > batch {
					remaining = batch
				}
				for j := 0; j < remaining; j++ {
					rows = append(rows, gen.Next())
				}
			}

			shards[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Row, 0, n)
	for _, shard := range shards {
		out = append(out, shard...)
	}
	return out, nil
}

package aggregate

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"onebrc/internal/chunk"
)

// Run processes each range of data on its own goroutine, waits for all of
// them, then reduces the per-chunk tables in range order. The first chunk
// error is returned and no table is produced.
func Run(data []byte, ranges []chunk.Range, log *zap.Logger) (*Table, error) {
	start := time.Now()

	results := make([]*LocalTable, len(ranges))
	var g errgroup.Group
	for i, r := range ranges {
		i, r := i, r
		log.Info("chunk",
			zap.Int("chunk", i),
			zap.Int("offset", r.Off),
			zap.Int("end", r.End()),
			zap.String("size", humanize.Bytes(uint64(r.Len))))
		g.Go(func() error {
			lt, err := process(r.Slice(data), r.Off)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			results[i] = lt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("chunks processed", zap.Duration("elapsed", time.Since(start)))

	table := NewTable()
	for i, lt := range results {
		table.MergeLocal(lt)
		results[i] = nil
	}
	log.Info("reduced",
		zap.Int("keys", table.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return table, nil
}

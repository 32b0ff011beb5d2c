// Package aggregate folds records into per-key statistics, one table per
// chunk, and reduces the chunk tables into one ordered table.
package aggregate

import (
	"fmt"
	"unsafe"

	"github.com/dolthub/swiss"

	"onebrc/internal/measure"
)

// Initial LocalTable capacity. The key set is bounded (a few thousand
// stations); the map grows past this if needed.
const localCap = 10_000

// LocalTable holds the statistics of one chunk. Its keys alias the chunk's
// bytes and are valid only while the input is open.
type LocalTable struct {
	m *swiss.Map[string, *measure.Stats]
}

func newLocalTable() *LocalTable {
	return &LocalTable{m: swiss.NewMap[string, *measure.Stats](localCap)}
}

func (t *LocalTable) Len() int {
	return t.m.Count()
}

// Iter calls fn for each key in unspecified order until fn returns true.
func (t *LocalTable) Iter(fn func(key string, s measure.Stats) (stop bool)) {
	t.m.Iter(func(k string, v *measure.Stats) bool {
		return fn(k, *v)
	})
}

// Process folds every line of data into a new LocalTable. Any malformed
// line fails the whole chunk.
func Process(data []byte) (*LocalTable, error) {
	return process(data, 0)
}

// process is Process with error offsets reported relative to base.
func process(data []byte, base int) (*LocalTable, error) {
	table := newLocalTable()

	for rest := data; len(rest) > 0; {
		off := base + len(data) - len(rest)

		var line []byte
		line, rest = measure.NextLine(rest)
		key, tok, err := measure.Record(line)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", off, err)
		}
		temp, err := measure.ParseScaled(tok)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", off, err)
		}

		// Zero-copy view of the key; no allocation on the hot path.
		id := unsafe.String(unsafe.SliceData(key), len(key))
		m, ok := table.m.Get(id)
		if !ok {
			s := measure.NewStats()
			m = &s
			table.m.Put(id, m)
		}
		m.Update(temp)
	}

	return table, nil
}

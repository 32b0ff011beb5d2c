package aggregate

import (
	"strings"

	"github.com/google/btree"

	"onebrc/internal/measure"
)

const btreeDegree = 32

type entry struct {
	key   string
	stats measure.Stats
}

func lessEntry(a, b *entry) bool {
	return a.key < b.key
}

// Table is the reduced result, ordered byte-wise by key. It owns copies of
// its keys, so it stays valid after the input is closed.
type Table struct {
	tree *btree.BTreeG[*entry]
}

func NewTable() *Table {
	return &Table{tree: btree.NewG[*entry](btreeDegree, lessEntry)}
}

// Merge folds s into the statistics for key. The key is copied only when
// it is new to the table.
func (t *Table) Merge(key string, s measure.Stats) {
	if e, ok := t.tree.Get(&entry{key: key}); ok {
		e.stats.Merge(s)
		return
	}
	t.tree.ReplaceOrInsert(&entry{key: strings.Clone(key), stats: s})
}

// MergeLocal folds every entry of lt into t.
func (t *Table) MergeLocal(lt *LocalTable) {
	lt.Iter(func(key string, s measure.Stats) bool {
		t.Merge(key, s)
		return false
	})
}

func (t *Table) Get(key string) (measure.Stats, bool) {
	e, ok := t.tree.Get(&entry{key: key})
	if !ok {
		return measure.Stats{}, false
	}
	return e.stats, true
}

func (t *Table) Len() int {
	return t.tree.Len()
}

// Ascend calls fn for each key in lexicographic order until fn returns false.
func (t *Table) Ascend(fn func(key string, s measure.Stats) bool) {
	t.tree.Ascend(func(e *entry) bool {
		return fn(e.key, e.stats)
	})
}

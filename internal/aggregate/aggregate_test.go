package aggregate

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/exp/maps"

	"onebrc/internal/chunk"
	"onebrc/internal/measure"
)

var stations = []string{"Abha", "Abidjan", "Accra", "Zürich", "Ürümqi", "İzmir", "a", "b"}

// genInput returns n random records and the values per station, unscaled.
func genInput(rnd *rand.Rand, n int, trailingNewline bool) (string, map[string][]float64) {
	var sb strings.Builder
	values := make(map[string][]float64)
	for i := 0; i < n; i++ {
		name := stations[rnd.Intn(len(stations))]
		v := rnd.Intn(1999) - 999
		a := v
		sign := ""
		if a < 0 {
			a, sign = -a, "-"
		}
		fmt.Fprintf(&sb, "%s;%s%d.%d", name, sign, a/10, a%10)
		if i < n-1 || trailingNewline {
			sb.WriteByte('\n')
		}
		values[name] = append(values[name], float64(v)/10)
	}
	return sb.String(), values
}

func localToMap(lt *LocalTable) map[string]measure.Stats {
	m := make(map[string]measure.Stats)
	lt.Iter(func(k string, s measure.Stats) bool {
		m[strings.Clone(k)] = s
		return false
	})
	return m
}

func TestProcess(t *testing.T) {
	lt, err := Process([]byte("A;1.2\nB;-3.4\nA;0.0\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]measure.Stats{
		"A": {Min: 0, Max: 12, Sum: 12, Count: 2},
		"B": {Min: -34, Max: -34, Sum: -34, Count: 1},
	}, localToMap(lt))
}

func TestProcessNoTrailingNewline(t *testing.T) {
	lt, err := Process([]byte("A;1.2\nA;-1.2"))
	require.NoError(t, err)
	assert.Equal(t, map[string]measure.Stats{
		"A": {Min: -12, Max: 12, Sum: 0, Count: 2},
	}, localToMap(lt))
}

func TestProcessEmpty(t *testing.T) {
	lt, err := Process(nil)
	require.NoError(t, err)
	assert.Zero(t, lt.Len())
}

func TestProcessMalformed(t *testing.T) {
	for _, in := range []string{
		"A;1.2\nB\n",
		"A;1.2\nB;1.23\n",
		"A;1.2\n\nB;1.0\n",
		"A;+1.2\n",
		"A;1.2\r\n",
	} {
		_, err := Process([]byte(in))
		assert.ErrorIs(t, err, measure.ErrFormat, "%q", in)
	}
}

func TestProcessErrorOffset(t *testing.T) {
	_, err := process([]byte("A;1.2\nB;x\n"), 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 106")
}

func TestTableOrderAndCopy(t *testing.T) {
	buf := []byte("b;1.0\na;2.0\nc;3.0\na;-1.0\n")
	lt, err := Process(buf)
	require.NoError(t, err)

	table := NewTable()
	table.MergeLocal(lt)

	// The table must not alias the input.
	for i := range buf {
		buf[i] = 'x'
	}

	var keys []string
	table.Ascend(func(k string, s measure.Stats) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	a, ok := table.Get("a")
	require.True(t, ok)
	assert.Equal(t, measure.Stats{Min: -10, Max: 20, Sum: 10, Count: 2}, a)

	_, ok = table.Get("x")
	assert.False(t, ok)
}

func TestAscendStops(t *testing.T) {
	table := NewTable()
	for _, k := range []string{"c", "a", "b"} {
		s := measure.NewStats()
		s.Update(1)
		table.Merge(k, s)
	}
	var seen []string
	table.Ascend(func(k string, _ measure.Stats) bool {
		seen = append(seen, k)
		return len(seen) < 2
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestRun(t *testing.T) {
	log := zaptest.NewLogger(t)
	rnd := rand.New(rand.NewSource(42))
	input, values := genInput(rnd, 5000, false)
	data := []byte(input)

	for _, w := range []int{1, 2, 3, 8, 16} {
		table, err := Run(data, chunk.Partition(data, w), log)
		require.NoError(t, err)
		require.Equal(t, len(values), table.Len())

		var keys []string
		table.Ascend(func(k string, s measure.Stats) bool {
			keys = append(keys, k)
			vs := values[k]

			lo, _ := stats.Min(vs)
			hi, _ := stats.Max(vs)
			mean, _ := stats.Mean(vs)
			assert.InDelta(t, lo, float64(s.Min)/10, 1e-9, k)
			assert.InDelta(t, hi, float64(s.Max)/10, 1e-9, k)
			assert.InDelta(t, mean, s.Mean(), 1e-9, k)
			assert.Equal(t, uint64(len(vs)), s.Count, k)
			return true
		})
		want := maps.Keys(values)
		slices.Sort(want)
		assert.Equal(t, want, keys)
	}
}

// Splitting the records into any groups and merging in any order gives the
// same result as one sequential pass.
func TestRunMergeOrderInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	input, _ := genInput(rnd, 2000, true)
	data := []byte(input)

	seq, err := Process(data)
	require.NoError(t, err)
	want := localToMap(seq)

	for trial := 0; trial < 20; trial++ {
		ranges := chunk.Partition(data, 1+rnd.Intn(32))
		locals := make([]*LocalTable, len(ranges))
		for i, r := range ranges {
			locals[i], err = Process(r.Slice(data))
			require.NoError(t, err)
		}
		rnd.Shuffle(len(locals), func(i, j int) { locals[i], locals[j] = locals[j], locals[i] })

		table := NewTable()
		for _, lt := range locals {
			table.MergeLocal(lt)
		}
		got := make(map[string]measure.Stats)
		table.Ascend(func(k string, s measure.Stats) bool {
			got[k] = s
			return true
		})
		assert.Equal(t, want, got)
	}
}

func TestRunFailure(t *testing.T) {
	data := []byte("A;1.2\nB;-3.4\nC;oops\nD;5.6\n")
	_, err := Run(data, chunk.Partition(data, 2), zaptest.NewLogger(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, measure.ErrFormat)
	assert.Contains(t, err.Error(), "offset 13")
}

func BenchmarkProcess(b *testing.B) {
	rnd := rand.New(rand.NewSource(1))
	input, _ := genInput(rnd, 100_000, true)
	data := []byte(input)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Process(data); err != nil {
			b.Fatal(err)
		}
	}
}

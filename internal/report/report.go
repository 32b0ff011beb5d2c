// Package report renders a reduced table as tab-separated text.
package report

import (
	"bufio"
	"io"
	"math"
	"strconv"

	"onebrc/internal/aggregate"
	"onebrc/internal/measure"
)

// Write emits one "key\tmin\tmean\tmax" line per key in table order.
func Write(w io.Writer, table *aggregate.Table) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	table.Ascend(func(id string, m measure.Stats) bool {
		buf = append(buf[:0], id...)
		buf = append(buf, '\t')
		buf = appendTenths(buf, round(float64(m.Min)/10.0))
		buf = append(buf, '\t')
		buf = appendTenths(buf, round(m.Mean()))
		buf = append(buf, '\t')
		buf = appendTenths(buf, round(float64(m.Max)/10.0))
		buf = append(buf, '\n')
		_, err := bw.Write(buf)
		return err == nil
	})
	return bw.Flush()
}

func appendTenths(b []byte, x float64) []byte {
	return strconv.AppendFloat(b, x, 'f', 1, 64)
}

func round(x float64) float64 {
	return roundJava(x*10.0) / 10.0
}

// roundJava returns the closest integer to the argument, with ties
// rounding to positive infinity, see java's Math.round
func roundJava(x float64) float64 {
	t := math.Trunc(x)
	if x < 0.0 && t-x == 0.5 {
		//return t
	} else if math.Abs(x-t) >= 0.5 {
		t += math.Copysign(1, x)
	}

	if t == 0 { // check -0
		return 0.0
	}
	return t
}

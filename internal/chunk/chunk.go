// Package chunk cuts an input into line-aligned ranges, one per worker.
package chunk

import "bytes"

// Range is a contiguous span [Off, Off+Len) of the input.
type Range struct {
	Off, Len int
}

func (r Range) End() int {
	return r.Off + r.Len
}

func (r Range) Slice(data []byte) []byte {
	return data[r.Off:r.End():r.End()]
}

// Partition returns exactly w ranges that cover data in order. Each of the
// first w-1 ranges ends just after a newline found at or past its target
// size; when no newline remains, that range takes the rest of the input and
// the ranges after it are empty. The last range always runs to the end.
func Partition(data []byte, w int) []Range {
	if w < 1 {
		w = 1
	}
	chunkSize := len(data) / w

	chunks := make([]Range, 0, w)
	offset := 0
	for i := 0; i < w-1; i++ {
		end := offset + chunkSize
		if end >= len(data) {
			end = len(data)
		} else if nlPos := bytes.IndexByte(data[end:], '\n'); nlPos == -1 {
			end = len(data)
		} else {
			end += nlPos + 1
		}
		chunks = append(chunks, Range{Off: offset, Len: end - offset})
		offset = end
	}
	return append(chunks, Range{Off: offset, Len: len(data) - offset})
}

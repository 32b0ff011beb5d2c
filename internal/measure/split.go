package measure

import (
	"bytes"
	"fmt"
)

// NextLine splits b at its first newline. Without a newline the whole of b
// is the line and rest is empty.
func NextLine(b []byte) (line, rest []byte) {
	nlPos := bytes.IndexByte(b, '\n')
	if nlPos == -1 {
		return b, nil
	}
	return b[:nlPos], b[nlPos+1:]
}

// Record splits a line at its first ';'. Both results alias line.
func Record(line []byte) (key, tok []byte, err error) {
	semiPos := bytes.IndexByte(line, ';')
	if semiPos == -1 {
		return nil, nil, fmt.Errorf("%w: no ';' in line %q", ErrFormat, line)
	}
	return line[:semiPos], line[semiPos+1:], nil
}

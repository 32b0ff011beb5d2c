package mapped

import (
	"io"

	"github.com/klauspost/readahead"
)

const (
	readaheadBuffers = 4
	readaheadSize    = 8 * (1 << 20)
)

// ReadAll drains r into memory for inputs that cannot be mapped, such as
// pipes. The result is used through the same File surface; Close only
// drops the buffer.
func ReadAll(r io.Reader) (*File, error) {
	ra, err := readahead.NewReaderSize(r, readaheadBuffers, readaheadSize)
	if err != nil {
		return nil, err
	}
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// Package measure decodes "<key>;<value>" records and keeps running
// statistics over the decoded values.
package measure

import (
	"errors"
	"fmt"
)

// ErrFormat is returned for any record or value that does not follow the
// fixed input format.
var ErrFormat = errors.New("malformed input")

// ParseScaled decodes a value of the form [-]D.D or [-]DD.D into the value
// multiplied by ten. It does not allocate on success.
func ParseScaled(tok []byte) (int64, error) {
	s := tok
	negative := len(s) > 0 && s[0] == '-'
	if negative {
		s = s[1:]
	}

	var d0, d1, d2 byte
	switch {
	case len(s) == 3 && s[1] == '.':
		// 1.2
		d0, d1, d2 = '0', s[0], s[2]
	case len(s) == 4 && s[2] == '.':
		// 12.3
		d0, d1, d2 = s[0], s[1], s[3]
	default:
		return 0, fmt.Errorf("%w: value %q", ErrFormat, tok)
	}
	if !isDigit(d0) || !isDigit(d1) || !isDigit(d2) {
		return 0, fmt.Errorf("%w: value %q", ErrFormat, tok)
	}

	temp := int64(d0)*100 + int64(d1)*10 + int64(d2) - '0'*(100+10+1)
	if negative {
		temp = -temp
	}
	return temp, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

package encoding

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/timetag/errs"
)

func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63)) //nolint:gosec
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec
}

// readVarint decodes one zigzag varint at data[offset:] and returns the value and
// the offset past it.
func readVarint(data []byte, offset int) (int64, int, error) {
	u, n := binary.Uvarint(data[offset:])
	if n <= 0 {
		return 0, offset, fmt.Errorf("bad varint at byte %d: %w", offset, errs.ErrInvalidBlob)
	}

	return unzigzag(u), offset + n, nil
}

// checkConsumed reports trailing bytes after the last decoded value.
func checkConsumed(data []byte, offset int) error {
	if offset != len(data) {
		return fmt.Errorf("%d trailing bytes in column: %w", len(data)-offset, errs.ErrInvalidBlob)
	}

	return nil
}

package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/format"
)

const headerSizeV2 = 18

// MagicV2 opens every V2 stream. The rest of the 18-byte header is reserved.
var MagicV2 = []byte("SSTT2\x00")

// HeaderV2 returns a fresh V2 stream header.
func HeaderV2() []byte {
	h := make([]byte, headerSizeV2)
	copy(h, MagicV2)

	return h
}

// readMagic reads the first len(MagicV2) bytes of r and reports whether they match.
// A stream shorter than the magic does not match.
func readMagic(r io.ReadSeeker) (bool, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	buf := make([]byte, len(MagicV2))
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	return n == len(MagicV2) && bytes.Equal(buf, MagicV2), nil
}

// checkHeader verifies that r starts like a stream of the given layout.
//
// V2 streams must carry the magic and a complete header. V1 streams have no header
// and must not start with the V2 magic.
func checkHeader(r io.ReadSeeker, l Layout, size int64) error {
	hasMagic, err := readMagic(r)
	if err != nil {
		return err
	}

	switch l.Format {
	case format.FormatV2:
		if !hasMagic {
			return fmt.Errorf("missing V2 magic: %w", errs.ErrFormatMismatch)
		}
		if size < int64(l.HeaderSize) {
			return fmt.Errorf("truncated V2 header (%d bytes): %w", size, errs.ErrFormatMismatch)
		}
	default:
		if hasMagic {
			return fmt.Errorf("V2 magic in %s stream: %w", l.Format, errs.ErrFormatMismatch)
		}
	}

	return nil
}

// Detect reports the format of the stream in r: V2 when it starts with MagicV2,
// V1 otherwise. The read position is reset to the start of the stream.
func Detect(r io.ReadSeeker) (format.Format, error) {
	hasMagic, err := readMagic(r)
	if err != nil {
		return 0, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	if hasMagic {
		return format.FormatV2, nil
	}

	return format.FormatV1, nil
}

// DetectFile reports the format of the stream file at path.
func DetectFile(path string) (format.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}
	defer f.Close()

	return Detect(f)
}

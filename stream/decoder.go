package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/timetag/endian"
	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/format"
)

// readChunkRecords is the number of records read per buffered chunk.
const readChunkRecords = 8192

// Session is the resumable decode position of a stream.
type Session struct {
	// Records is the number of complete records consumed, overflow and reserved
	// records included.
	Records uint64
	// Overflows is the total counter wrap count accumulated over those records.
	Overflows uint64
}

// Result holds the events decoded by one Decode call.
type Result struct {
	// Macrotimes are the overflow-corrected photon times, non-decreasing.
	Macrotimes []int64
	// Microtimes holds one value per macrotime for V1 streams and is nil for V2.
	Microtimes []int64
	// Session is the position at which decoding stopped; pass it to the next call to resume.
	Session Session
}

// ReadFile decodes the stream file at path starting from sess.
func ReadFile(path string, f format.Format, sess Session) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}
	defer file.Close()

	return Decode(file, f, sess)
}

// Decode decodes the records of r that follow sess and returns the photons found.
//
// Decoding skips sess.Records records after the header, seeds the overflow total
// with sess.Overflows and reads every complete record up to the current end of r.
//
// Returns:
//   - errs.ErrFormatMismatch if the stream header does not match f
//   - errs.ErrSeekFailure if sess.Records lies beyond the last complete record
//   - errs.ErrIO on read or seek failures
func Decode(r io.ReadSeeker, f format.Format, sess Session) (*Result, error) {
	layout, err := LayoutOf(f)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	overflows := sess.Overflows

	var visit func(RawRecord)
	if layout.MicroBits > 0 {
		visit = func(rec RawRecord) {
			ev := layout.Event(rec)
			switch ev.Kind {
			case KindOverflow:
				overflows += ev.Delta
			case KindPhoton:
				res.Macrotimes = append(res.Macrotimes, layout.Macrotime(ev, overflows))
				res.Microtimes = append(res.Microtimes, int64(ev.Micro)) //nolint:gosec
			case KindReserved:
			}
		}
	} else {
		visit = func(rec RawRecord) {
			ev := layout.Event(rec)
			switch ev.Kind {
			case KindOverflow:
				overflows += ev.Delta
			case KindPhoton:
				res.Macrotimes = append(res.Macrotimes, layout.Macrotime(ev, overflows))
			case KindReserved:
			}
		}
	}

	consumed, err := scan(r, layout, sess.Records, func(n uint64) {
		res.Macrotimes = make([]int64, 0, n)
		if layout.MicroBits > 0 {
			res.Microtimes = make([]int64, 0, n)
		}
	}, visit)
	if err != nil {
		return nil, err
	}

	res.Session = Session{Records: sess.Records + consumed, Overflows: overflows}

	return res, nil
}

// CountPhotons returns the number of photon records in the stream.
func CountPhotons(r io.ReadSeeker, f format.Format) (uint64, error) {
	layout, err := LayoutOf(f)
	if err != nil {
		return 0, err
	}

	var photons uint64
	_, err = scan(r, layout, 0, nil, func(rec RawRecord) {
		if rec.IsPhoton() {
			photons++
		}
	})

	return photons, err
}

// CountPhotonsFile returns the number of photon records in the stream file at path.
func CountPhotonsFile(path string, f format.Format) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}
	defer file.Close()

	return CountPhotons(file, f)
}

// scan validates the header of r, seeks past skip records and calls visit for every
// complete record that follows. sized, if non-nil, receives the number of records
// about to be visited. It returns the number of records visited.
func scan(r io.ReadSeeker, l Layout, skip uint64, sized func(uint64), visit func(RawRecord)) (uint64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	if err := checkHeader(r, l, size); err != nil {
		return 0, err
	}

	recSize := int64(l.RecordSize)
	available := uint64((size - int64(l.HeaderSize)) / recSize) //nolint:gosec
	if skip > available {
		return 0, fmt.Errorf("skip %d records, stream holds %d: %w", skip, available, errs.ErrSeekFailure)
	}

	start := int64(l.HeaderSize) + int64(skip)*recSize //nolint:gosec
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: %w: %w", errs.ErrSeekFailure, errs.ErrIO, err)
	}

	remaining := available - skip
	if sized != nil {
		sized(remaining)
	}

	engine := endian.GetLittleEndianEngine()
	br := bufio.NewReaderSize(r, readChunkRecords*l.RecordSize)
	chunk := make([]byte, readChunkRecords*l.RecordSize)

	var visited uint64
	for visited < remaining {
		n := min(remaining-visited, readChunkRecords)
		buf := chunk[:int(n)*l.RecordSize]
		if _, err := io.ReadFull(br, buf); err != nil {
			return visited, fmt.Errorf("%w: record %d: %w", errs.ErrIO, skip+visited, err)
		}

		for off := 0; off < len(buf); off += l.RecordSize {
			visit(l.Word(engine, buf[off:]))
		}
		visited += n
	}

	return visited, nil
}

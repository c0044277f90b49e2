package stream

import (
	"fmt"
	"io"

	"github.com/arloliu/timetag/endian"
	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/format"
	"github.com/arloliu/timetag/internal/pool"
)

// Writer encodes photon macrotimes into a time-tag stream.
//
// The writer tracks the counter epoch of the last photon and emits the overflow
// records needed before each photon, so callers only supply absolute macrotimes.
// Records are buffered; call Flush or Close to write them out.
type Writer struct {
	w         io.Writer
	layout    Layout
	engine    endian.EndianEngine
	buf       *pool.ByteBuffer
	session   Session
	last      int64
	flushSize int
}

// NewWriter creates a writer producing a stream of format f on w. For V2 the
// header is written on the first flush.
func NewWriter(w io.Writer, f format.Format) (*Writer, error) {
	layout, err := LayoutOf(f)
	if err != nil {
		return nil, err
	}

	sw := &Writer{
		w:         w,
		layout:    layout,
		engine:    endian.GetLittleEndianEngine(),
		buf:       pool.GetRecordBuffer(),
		flushSize: pool.RecordBufferDefaultSize,
	}

	if f == format.FormatV2 {
		_, _ = sw.buf.Write(HeaderV2())
	}

	return sw, nil
}

// Session returns the records written so far and the overflow total they carry,
// which is the Session a decoder reaches after reading them.
func (sw *Writer) Session() Session {
	return sw.session
}

// WritePhoton appends a photon at the given absolute macrotime, preceded by any
// overflow records needed to reach its counter epoch. microtime is ignored by
// formats without a microtime field.
//
// Macrotimes must be non-negative, non-decreasing and not before the epoch reached
// by WriteOverflow; microtime must fit the format.
func (sw *Writer) WritePhoton(macrotime int64, microtime uint64) error {
	if macrotime < 0 {
		return fmt.Errorf("negative macrotime %d: %w", macrotime, errs.ErrInvalidArgument)
	}

	if macrotime < sw.last {
		return fmt.Errorf("macrotime %d precedes %d: %w", macrotime, sw.last, errs.ErrInvalidArgument)
	}

	if microtime > sw.layout.MaxMicrotime() && sw.layout.MicroBits > 0 {
		return fmt.Errorf("microtime %d exceeds %d bits: %w", microtime, sw.layout.MicroBits, errs.ErrInvalidArgument)
	}

	epoch := uint64(macrotime) >> sw.layout.MacroBits
	if epoch < sw.session.Overflows {
		return fmt.Errorf("macrotime %d precedes overflow epoch %d: %w", macrotime, sw.session.Overflows, errs.ErrInvalidArgument)
	}

	if epoch > sw.session.Overflows {
		if err := sw.WriteOverflow(epoch - sw.session.Overflows); err != nil {
			return err
		}
	}

	sw.last = macrotime

	return sw.append(sw.layout.Photon(uint64(macrotime), microtime))
}

// WriteOverflow appends overflow records for delta counter wraps, splitting delta
// across several records when it exceeds one record's capacity. A zero delta
// writes nothing.
func (sw *Writer) WriteOverflow(delta uint64) error {
	sw.session.Overflows += delta

	limit := sw.layout.MaxOverflowDelta()
	for delta > 0 {
		n := min(delta, limit)
		if err := sw.append(sw.layout.Overflow(n)); err != nil {
			return err
		}
		delta -= n
	}

	return nil
}

func (sw *Writer) append(rec RawRecord) error {
	if sw.buf == nil {
		return fmt.Errorf("write after close: %w", errs.ErrIO)
	}

	sw.buf.B = sw.layout.AppendWord(sw.engine, sw.buf.B, rec)
	sw.session.Records++

	if sw.buf.Len() >= sw.flushSize {
		return sw.Flush()
	}

	return nil
}

// Flush writes buffered records to the underlying writer.
func (sw *Writer) Flush() error {
	if sw.buf == nil || sw.buf.Len() == 0 {
		return nil
	}

	if _, err := sw.buf.WriteTo(sw.w); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}
	sw.buf.Reset()

	return nil
}

// Close flushes buffered records and releases the writer's buffer.
// The writer must not be used afterwards.
func (sw *Writer) Close() error {
	err := sw.Flush()
	pool.PutRecordBuffer(sw.buf)
	sw.buf = nil

	return err
}

package stream

import (
	"fmt"

	"github.com/arloliu/timetag/endian"
	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/format"
)

const (
	flagOverflow = 1 << 0
	flagReserved = 1 << 1
	signalBits   = 2
)

// RawRecord is one undecoded stream record, zero-extended to 64 bits.
type RawRecord uint64

// IsOverflow reports whether r is an overflow record.
func (r RawRecord) IsOverflow() bool {
	return r&flagOverflow != 0 && r&flagReserved == 0
}

// IsPhoton reports whether r is a photon record.
func (r RawRecord) IsPhoton() bool {
	return r&(flagOverflow|flagReserved) == 0
}

// IsReserved reports whether r has the reserved bit set. Such records carry no event.
func (r RawRecord) IsReserved() bool {
	return r&flagReserved != 0
}

// Payload returns the bits above the two signal bits.
func (r RawRecord) Payload() uint64 {
	return uint64(r) >> signalBits
}

// EventKind tags the variant held by an Event.
type EventKind uint8

const (
	KindPhoton EventKind = iota
	KindOverflow
	KindReserved
)

func (k EventKind) String() string {
	switch k {
	case KindPhoton:
		return "Photon"
	case KindOverflow:
		return "Overflow"
	default:
		return "Reserved"
	}
}

// Event is a decoded record: a photon with raw counter values, an overflow with
// its wrap count, or a reserved record.
type Event struct {
	Kind EventKind
	// Delta is the number of counter wraps since the previous record (overflow only).
	Delta uint64
	// Macro is the macrotime counter value before overflow correction (photon only).
	Macro uint64
	// Micro is the microtime counter value (photon only, V1 streams).
	Micro uint64
}

// Layout describes the bit layout of one stream format.
type Layout struct {
	Format       format.Format
	RecordSize   int // bytes per record
	HeaderSize   int // bytes before the first record
	MicroBits    uint
	MacroBits    uint
	OverflowBits uint
}

var (
	layoutV1 = Layout{Format: format.FormatV1, RecordSize: 8, HeaderSize: 0, MicroBits: 34, MacroBits: 28, OverflowBits: 62}
	layoutV2 = Layout{Format: format.FormatV2, RecordSize: 6, HeaderSize: headerSizeV2, MicroBits: 0, MacroBits: 46, OverflowBits: 46}
)

// LayoutOf returns the record layout of f.
func LayoutOf(f format.Format) (Layout, error) {
	switch f {
	case format.FormatV1:
		return layoutV1, nil
	case format.FormatV2:
		return layoutV2, nil
	default:
		return Layout{}, fmt.Errorf("stream format %s: %w", f, errs.ErrInvalidArgument)
	}
}

func mask(bits uint) uint64 {
	return uint64(1)<<bits - 1
}

// WrapPeriod is the macrotime span covered by one counter epoch, 2^MacroBits.
func (l Layout) WrapPeriod() int64 {
	return int64(1) << l.MacroBits
}

// MaxMicrotime is the largest microtime a record can hold (0 for formats without microtime).
func (l Layout) MaxMicrotime() uint64 {
	return mask(l.MicroBits)
}

// MaxOverflowDelta is the largest wrap count one overflow record can hold.
func (l Layout) MaxOverflowDelta() uint64 {
	return mask(l.OverflowBits)
}

// OverflowDelta extracts the wrap count of an overflow record.
func (l Layout) OverflowDelta(r RawRecord) uint64 {
	return r.Payload() & mask(l.OverflowBits)
}

// Macro extracts the raw macrotime counter of a photon record.
func (l Layout) Macro(r RawRecord) uint64 {
	return (r.Payload() >> l.MicroBits) & mask(l.MacroBits)
}

// Micro extracts the microtime of a photon record.
func (l Layout) Micro(r RawRecord) uint64 {
	return r.Payload() & mask(l.MicroBits)
}

// Event decodes r into its tagged form.
func (l Layout) Event(r RawRecord) Event {
	switch {
	case r.IsOverflow():
		return Event{Kind: KindOverflow, Delta: l.OverflowDelta(r)}
	case r.IsPhoton():
		return Event{Kind: KindPhoton, Macro: l.Macro(r), Micro: l.Micro(r)}
	default:
		return Event{Kind: KindReserved}
	}
}

// Macrotime returns the overflow-corrected macrotime of a photon.
func (l Layout) Macrotime(ev Event, overflows uint64) int64 {
	return int64(overflows<<l.MacroBits + ev.Macro) //nolint:gosec
}

// Photon packs a photon record. Bits beyond the field widths are dropped.
func (l Layout) Photon(macro, micro uint64) RawRecord {
	payload := (macro&mask(l.MacroBits))<<l.MicroBits | micro&mask(l.MicroBits)
	return RawRecord(payload << signalBits)
}

// Overflow packs an overflow record. Bits beyond the field width are dropped.
func (l Layout) Overflow(delta uint64) RawRecord {
	return RawRecord((delta&mask(l.OverflowBits))<<signalBits | flagOverflow)
}

// Word reads the record at the start of b, which must hold at least RecordSize bytes.
func (l Layout) Word(engine endian.EndianEngine, b []byte) RawRecord {
	if l.RecordSize == 6 {
		return RawRecord(endian.Uint48(engine, b))
	}

	return RawRecord(engine.Uint64(b))
}

// AppendWord appends the encoding of r to b.
func (l Layout) AppendWord(engine endian.EndianEngine, b []byte, r RawRecord) []byte {
	if l.RecordSize == 6 {
		return endian.AppendUint48(engine, b, uint64(r))
	}

	return engine.AppendUint64(b, uint64(r))
}

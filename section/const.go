package section

// Layout constants.
const (
	HeaderSize = 32   // fixed header size in bytes
	Version    = 0x01 // current blob version
)

// Magic opens every histogram blob.
var Magic = [4]byte{'T', 'T', 'H', 'B'}

// Flag bits, byte 5 of the header.
const (
	FlagFloatEdges = 0x01 // edges column holds raw float64 values instead of delta-encoded int64
	FlagNormalized = 0x02 // a normalized amplitude column follows the counts
	FlagBigEndian  = 0x04 // multi-byte fields use big-endian order

	flagMask = FlagFloatEdges | FlagNormalized | FlagBigEndian
)

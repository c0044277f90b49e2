// Package section defines the fixed binary header of histogram blobs.
//
// A histogram blob is a 32-byte header followed by one payload holding the encoded
// columns, optionally compressed as a whole:
//
//	┌──────────────────────────────────────────────────────────┐
//	│ Header (32 bytes)                                        │
//	│  0-3   magic "TTHB"                                      │
//	│  4     version                                           │
//	│  5     flags: float edges, normalized column, big endian │
//	│  6     compression type                                  │
//	│  7     reserved, zero                                    │
//	│  8-11  bin count                                         │
//	│  12-15 counts column offset                              │
//	│  16-19 normalized column offset                          │
//	│  20-23 uncompressed payload size                         │
//	│  24-31 xxHash64 of the stored payload                    │
//	├──────────────────────────────────────────────────────────┤
//	│ Payload (stored form)                                    │
//	│  edges column | counts column | normalized column        │
//	└──────────────────────────────────────────────────────────┘
//
// Column offsets are relative to the start of the uncompressed payload. The edges
// column always starts at 0. Without a normalized column its offset equals the
// payload size.
//
// Bytes 0-7 are byte-order independent. Multi-byte fields from byte 8 on use the
// byte order selected by FlagBigEndian.
package section

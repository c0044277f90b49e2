// Package stream decodes and writes time-tag event streams.
//
// A stream is a flat sequence of fixed-width little-endian records produced by
// time-to-digital converters. Each record is either a photon event carrying the
// low bits of the hardware time counter, or an overflow event carrying the number
// of counter wraps since the previous record:
//
//	bit 0     overflow flag
//	bit 1     reserved
//	bits 2..  payload
//
// Two formats exist:
//
//   - V1 (legacy, headerless): 64-bit records; payload = 34 microtime bits followed
//     by 28 macrotime bits, or a 62-bit overflow count.
//   - V2: an 18-byte header starting with the magic "SSTT2\x00", then 48-bit records;
//     payload = 46 macrotime bits, or a 46-bit overflow count.
//
// The decoder reconstructs absolute macrotimes as payload + overflows·2^macroBits.
//
// # Resuming
//
// Acquisition software appends to stream files while an experiment runs. Decode
// takes a Session (records already consumed, overflow total at that point) and
// returns the Session at which it stopped, so a reader can poll a growing file
// without re-reading it:
//
//	res, err := stream.ReadFile(path, format.FormatV2, stream.Session{})
//	// ... later, after the file has grown
//	more, err := stream.ReadFile(path, format.FormatV2, res.Session)
//
// Decoding everything at once and decoding in resumed pieces yield the same
// macrotimes. A trailing partial record is left for the next call.
package stream

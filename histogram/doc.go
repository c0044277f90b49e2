// Package histogram post-processes correlation histograms: normalization against
// the acquisition window, rebinning into coarser bins, and generation of linear or
// logarithmic bin edges.
//
// Functions write into caller-sized buffers. The *Len companions report the size a
// buffer must have; a buffer of any other size is an error, never resized.
package histogram

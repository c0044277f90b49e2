// Package correlate builds raw correlation histograms from two sorted photon
// timestamp sequences.
//
// A histogram bin i counts the pairs (l, r) with l from the left sequence, r from the
// right sequence and edges[i] <= r-l < edges[i+1]. Two algorithms produce the same
// histogram with different cost profiles:
//
//   - VariableBin keeps one search cursor per bin edge and suits wide, densely
//     populated bins such as long-lag fluorescence correlation curves.
//   - UnitBin sweeps both sequences with a single shared cursor and suits many
//     sparsely populated bins one time unit wide, such as antibunching curves.
//
// Both accumulate into the caller's histogram, so repeated calls over consecutive
// chunks of a stream add up. Inputs must be sorted ascending. Unsorted input is not
// detected and silently undercounts.
package correlate

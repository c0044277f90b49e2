// Package search locates insertion points in sorted numeric sequences.
//
// Every binning operation in timetag reduces to "where would v be inserted into a
// sorted sequence". The functions here answer that with hinted linear scans rather
// than bisection: correlation sweeps ask a long series of queries whose answers move
// monotonically, so starting from the previous answer costs O(1) amortized. When no
// previous answer exists, Guess estimates one by linear interpolation, which is
// exact for evenly spaced data such as bin edges and close for Poisson photon
// arrival times.
//
// Contract shared by all locators, for a non-decreasing sequence a:
//
//   - Left: the lower bound, the smallest i with a[i] >= v.
//   - Right: the lower bound plus one when a[lower bound] == v, otherwise the lower bound.
//   - v < a[0] returns 0 and v > a[len(a)-1] returns len(a) for either side.
//   - An empty sequence returns 0.
//
// Inputs are not validated as sorted; unsorted input yields an unspecified index.
package search

package pool

import "sync"

// Scratch pools for per-call working memory.
var (
	cursorSlicePool = sync.Pool{
		New: func() any { return &[]int{} },
	}
	int64SlicePool = sync.Pool{
		New: func() any { return &[]int64{} },
	}
)

// GetCursorSlice retrieves a zeroed int slice of the given length from the pool.
//
// The correlator keeps one search cursor per bin edge; this is where those cursors
// live. The caller must call the returned cleanup function (typically with defer) so
// the slice is released on every exit path.
//
// Example:
//
//	cursors, release := pool.GetCursorSlice(len(edges))
//	defer release()
func GetCursorSlice(size int) ([]int, func()) {
	ptr, _ := cursorSlicePool.Get().(*[]int)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int, size)
	} else {
		slice = slice[:size]
		clear(slice)
	}
	*ptr = slice

	return slice, func() { cursorSlicePool.Put(ptr) }
}

// GetInt64Slice retrieves an int64 slice of the given length. Contents are not cleared.
//
// The caller must call the returned cleanup function to return the slice to the pool.
func GetInt64Slice(size int) ([]int64, func()) {
	ptr, _ := int64SlicePool.Get().(*[]int64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int64, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { int64SlicePool.Put(ptr) }
}

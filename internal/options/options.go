// Package options provides generic functional options for timetag types whose
// settings are applied to a pointer before use, such as the histogram blob
// encoder:
//
//	type EncoderOption = options.Option[*EncoderConfig]
//
//	func WithBigEndian() EncoderOption {
//		return options.NoError(func(cfg *EncoderConfig) { cfg.bigEndian = true })
//	}
package options

// Option sets one field of a T and returns an error when the value is rejected.
type Option[T any] func(T) error

// New wraps fn as an Option.
func New[T any](fn func(T) error) Option[T] {
	return Option[T](fn)
}

// NoError wraps a setter that accepts every value.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply runs opts on target left to right. Nil options are skipped; the first
// error is returned unchanged and later options do not run.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}

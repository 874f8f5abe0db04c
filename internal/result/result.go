// Package result provides a two-variant outcome value for code that collects
// outcomes before deciding what to do with them.
//
// Port boundaries use Go's (T, error) convention; Result is for places where
// an outcome has to be stored, passed over a channel or aggregated, such as
// per-source skill installs or fan-out hashing. Of and Get convert between the
// two forms.
package result

// Result is either a success holding a value or a failure holding an error,
// never both. The zero value is a success holding T's zero value.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err returns a failed Result. A nil err is replaced so the Result stays failed.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = errNilFailure
	}
	return Result[T]{err: err}
}

// Of converts a (value, error) pair into a Result.
func Of[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// IsOk reports whether r is a success.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// IsErr reports whether r is a failure.
func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Value returns the success value, or T's zero value for a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil for a success.
func (r Result[T]) Err() error {
	return r.err
}

// Get converts r back into the (value, error) pair.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// UnwrapOr returns the success value or fallback for a failure.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Map transforms the value of a success and passes failures through untouched.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}

// FlatMap chains an operation that can itself fail.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return fn(r.value)
}

// MapErr transforms the error of a failure and passes successes through.
func MapErr[T any](r Result[T], fn func(error) error) Result[T] {
	if r.err == nil {
		return r
	}
	return Err[T](fn(r.err))
}

// Match folds r into a single value using one handler per variant.
func Match[T, U any](r Result[T], onOk func(T) U, onErr func(error) U) U {
	if r.err != nil {
		return onErr(r.err)
	}
	return onOk(r.value)
}

// Collect splits results into their success values and failures, keeping order.
func Collect[T any](results []Result[T]) ([]T, []error) {
	values := make([]T, 0, len(results))
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		values = append(values, r.value)
	}
	return values, errs
}

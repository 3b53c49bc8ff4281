package ai

// Outcome is the result of a model call that may fail recoverably. Callers
// decide what to fall back to through Or.
type Outcome[T any] struct {
	value T
	err   error
}

func Succeeded[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

func Failed[T any](err error) Outcome[T] {
	if err == nil {
		err = ErrEmptyResponse
	}
	return Outcome[T]{err: err}
}

// Attempt wraps a value/error pair.
func Attempt[T any](value T, err error) Outcome[T] {
	if err != nil {
		return Failed[T](err)
	}
	return Succeeded(value)
}

func (o Outcome[T]) OK() bool {
	return o.err == nil
}

func (o Outcome[T]) Err() error {
	return o.err
}

func (o Outcome[T]) Value() T {
	return o.value
}

// Or returns the value of a successful outcome and the result of fallback
// otherwise.
func (o Outcome[T]) Or(fallback func() T) T {
	if o.err == nil {
		return o.value
	}
	return fallback()
}

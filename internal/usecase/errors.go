package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrNothingToDo           = errors.New("nothing to do")
)

// NothingToDo reports an unmet precondition that is not a failure.
type NothingToDo struct {
	Reason string `json:"reason"`
}

func (n *NothingToDo) Error() string {
	if n == nil {
		return ErrNothingToDo.Error()
	}
	return ErrNothingToDo.Error() + ": " + n.Reason
}

func (n *NothingToDo) Unwrap() error {
	return ErrNothingToDo
}

func nothingToDo(reason string) *NothingToDo {
	return &NothingToDo{Reason: reason}
}

// IsNothingToDo reports whether err carries a nothing-to-do precondition.
func IsNothingToDo(err error) bool {
	return errors.Is(err, ErrNothingToDo)
}

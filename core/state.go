package core

type StateKind string

const (
	StateLoading StateKind = "loading"
	StateData    StateKind = "data"
	StateError   StateKind = "error"
)

// State is one element of a resolution attempt's published lifecycle. It is a
// closed tagged union over Loading, Data, Error; new kinds extend the union,
// callers switch exhaustively on Kind.
type State[T any] struct {
	Kind    StateKind
	Loading bool
	Payload *T
	Notice  *Notice
}

func LoadingState[T any](active bool) State[T] {
	return State[T]{Kind: StateLoading, Loading: active}
}

func DataState[T any](payload *T, notice *Notice) State[T] {
	return State[T]{Kind: StateData, Payload: payload, Notice: notice}
}

func ErrorState[T any](notice *Notice) State[T] {
	return State[T]{Kind: StateError, Notice: notice}
}

// Terminal reports whether no further state may follow this one.
func (s State[T]) Terminal() bool {
	return s.Kind == StateData || s.Kind == StateError
}

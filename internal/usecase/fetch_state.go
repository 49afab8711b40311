package usecase

// FetchState records which fetch a screen has in flight, or failed last.
type FetchState int

const (
	FetchNone FetchState = iota
	FetchInitial
	FetchRefresh
	FetchNextPage
)

func (f FetchState) String() string {
	switch f {
	case FetchNone:
		return "none"
	case FetchInitial:
		return "initial"
	case FetchRefresh:
		return "refresh"
	case FetchNextPage:
		return "next_page"
	default:
		return "unknown"
	}
}

// ViewKind is the variant of a screen's view state.
type ViewKind int

const (
	ViewInitial ViewKind = iota + 1
	ViewAppeared
	ViewLoading
	ViewScreenTransition
	ViewAlert
)

func (k ViewKind) String() string {
	switch k {
	case ViewInitial:
		return "initial"
	case ViewAppeared:
		return "appeared"
	case ViewLoading:
		return "loading"
	case ViewScreenTransition:
		return "screen_transition"
	case ViewAlert:
		return "alert"
	default:
		return "unknown"
	}
}

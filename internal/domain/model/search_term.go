package model

// SearchTerm is a previously searched user id together with when it was last used.
type SearchTerm struct {
	Term string
	// LastUsed is a Unix timestamp in seconds.
	LastUsed int64
}

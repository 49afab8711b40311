// Package alert maps classified fetch failures to the alerts a screen presents.
// Raw error text never reaches the user; only the fixed presentations below do.
package alert

import (
	"errors"

	"qiitawatch/internal/qiitaapi"
)

// Case is one of the alert presentations.
type Case int

const (
	// NoHitUser is shown when a user search matched nobody.
	NoHitUser Case = iota + 1
	// NetworkError is a dismiss-only network failure.
	NetworkError
	// NetworkErrorWithRetry offers to replay the failed fetch.
	NetworkErrorWithRetry
	// Unexpected covers everything the user cannot act on.
	Unexpected
)

const (
	closeButton = "Close"
	retryButton = "Retry"
)

type presentation struct {
	title   string
	message string
	retry   bool
}

var presentations = map[Case]presentation{
	NoHitUser: {
		title:   "User not found",
		message: "No user matched that id.",
	},
	NetworkError: {
		title:   "Network error",
		message: "Communication failed. Please try again where the connection is better.",
	},
	NetworkErrorWithRetry: {
		title:   "Network error",
		message: "Communication failed. Please try again where the connection is better.",
		retry:   true,
	},
	Unexpected: {
		title:   "Unexpected error",
		message: "An unexpected error occurred.",
	},
}

func (c Case) String() string {
	switch c {
	case NoHitUser:
		return "no_hit_user"
	case NetworkError:
		return "network_error"
	case NetworkErrorWithRetry:
		return "network_error_with_retry"
	case Unexpected:
		return "unexpected_error"
	default:
		return "unknown"
	}
}

// Title is the alert heading.
func (c Case) Title() string { return presentations[c].title }

// Message is the alert body.
func (c Case) Message() string { return presentations[c].message }

// PrimaryButton dismisses the alert. Every case has one.
func (c Case) PrimaryButton() string { return closeButton }

// SecondaryButton returns the retry label and true only for NetworkErrorWithRetry.
func (c Case) SecondaryButton() (string, bool) {
	if presentations[c].retry {
		return retryButton, true
	}
	return "", false
}

// HasRetry reports whether the alert offers a retry.
func (c Case) HasRetry() bool { return presentations[c].retry }

// ForUserDetail decides the alert for a failed fetch on the user detail screen.
func ForUserDetail(err error) Case {
	return retryOnClientError(err)
}

// ForFollowList decides the alert for a failed fetch on a followee/follower list.
func ForFollowList(err error) Case {
	return retryOnClientError(err)
}

// ForSearch decides the alert for a failed user lookup. The search screen never offers retry.
func ForSearch(err error) Case {
	if errors.Is(err, qiitaapi.ErrNotFound) {
		return NoHitUser
	}
	return NetworkError
}

// ForInvalidArticleURL is shown when a tapped article carries a URL that cannot be opened.
func ForInvalidArticleURL() Case {
	return Unexpected
}

func retryOnClientError(err error) Case {
	if errors.Is(err, qiitaapi.ErrClient) {
		return NetworkErrorWithRetry
	}
	return Unexpected
}

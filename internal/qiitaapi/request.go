package qiitaapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"qiitawatch/internal/domain/ports"
)

const (
	// DefaultBaseURL is the public Qiita API v2 root.
	DefaultBaseURL = "https://qiita.com/api/v2"
	// PerPage is the fixed page size of every paginated request.
	PerPage = 10

	pageKey    = "page"
	perPageKey = "per_page"
)

// PageParams returns the paging parameters for the 1-based page.
func PageParams(page int) map[string]string {
	return map[string]string{
		pageKey:    strconv.Itoa(page),
		perPageKey: strconv.Itoa(PerPage),
	}
}

// Endpoints builds request URLs against a base URL.
type Endpoints struct {
	base string
}

// NewEndpoints returns Endpoints rooted at baseURL, or DefaultBaseURL when empty.
func NewEndpoints(baseURL string) Endpoints {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Endpoints{base: strings.TrimRight(baseURL, "/")}
}

// UserLookup builds the single-user request. The keyword is path-escaped, so this never fails.
func (e Endpoints) UserLookup(keyword string) ports.Request {
	return ports.Request{URL: e.base + "/users/" + url.PathEscape(keyword)}
}

// UserArticles builds the request for one page of a user's articles.
func (e Endpoints) UserArticles(userID string, page int) (ports.Request, error) {
	return e.paged("/users/%s/items", userID, page)
}

// Followees builds the request for one page of the users userID follows.
func (e Endpoints) Followees(userID string, page int) (ports.Request, error) {
	return e.paged("/users/%s/followees", userID, page)
}

// Followers builds the request for one page of the users following userID.
func (e Endpoints) Followers(userID string, page int) (ports.Request, error) {
	return e.paged("/users/%s/followers", userID, page)
}

func (e Endpoints) paged(pathFormat, userID string, page int) (ports.Request, error) {
	raw := e.base + fmt.Sprintf(pathFormat, userID)
	if userID == "" || url.PathEscape(userID) != userID {
		return ports.Request{}, urlConstructionError(raw)
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ports.Request{}, urlConstructionError(raw)
	}
	return ports.Request{URL: raw, Params: PageParams(page)}, nil
}

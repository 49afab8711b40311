package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// CreatedAtLayout is the wire format of an article's created_at field.
const CreatedAtLayout = "2006-01-02T15:04:05Z07:00"

// Tag is a topic attached to an article.
type Tag struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
}

// Article is a post written by a Qiita user.
type Article struct {
	ID         string
	Title      string
	Tags       []Tag
	LikesCount int
	CreatedAt  time.Time
	URL        string
}

// UnmarshalJSON decodes an article. An unparsable created_at fails the whole decode.
func (a *Article) UnmarshalJSON(data []byte) error {
	var payload struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		Tags       []Tag  `json:"tags"`
		LikesCount int    `json:"likes_count"`
		CreatedAt  string `json:"created_at"`
		URL        string `json:"url"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	createdAt, err := parseCreatedAt(payload.CreatedAt)
	if err != nil {
		return err
	}

	*a = Article{
		ID:         payload.ID,
		Title:      payload.Title,
		Tags:       payload.Tags,
		LikesCount: payload.LikesCount,
		CreatedAt:  createdAt,
		URL:        payload.URL,
	}
	return nil
}

// secondsEnd is the offset just past the seconds field of CreatedAtLayout.
const secondsEnd = len("2006-01-02T15:04:05")

// parseCreatedAt parses value in CreatedAtLayout. time.Parse accepts fractional
// seconds the layout does not name, so they are rejected here.
func parseCreatedAt(value string) (time.Time, error) {
	if len(value) > secondsEnd && value[secondsEnd] == '.' {
		return time.Time{}, fmt.Errorf("parse created_at %q: fractional seconds are not allowed", value)
	}
	t, err := time.Parse(CreatedAtLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", value, err)
	}
	return t, nil
}

// TagNames returns the tag names in the order the API returned them.
func (a Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, tag := range a.Tags {
		names = append(names, tag.Name)
	}
	return names
}

package models

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// StatusCode is the lifecycle status of a prototype. The upstream catalog
// emits it as a number or a numeric string depending on the record's age;
// anything that does not decode to an integer lands in the Unknown bucket.
type StatusCode struct {
	Code  int
	Known bool
}

func (s StatusCode) String() string {
	if !s.Known {
		return "unknown"
	}
	return strconv.Itoa(s.Code)
}

func (s *StatusCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		s.Known = false
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		s.Known = false
		return nil
	}
	code, err := cast.ToIntE(raw)
	if err != nil {
		s.Known = false
		return nil
	}
	s.Code = code
	s.Known = true
	return nil
}

func (s StatusCode) MarshalJSON() ([]byte, error) {
	if !s.Known {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.Code)), nil
}

// Record is one prototype as fetched from the catalog. Immutable once
// fetched; owned by the snapshot store, read-only everywhere else.
type Record struct {
	Id           int        `json:"id"`
	Name         string     `json:"name"`
	Summary      string     `json:"summary"`
	Status       StatusCode `json:"status"`
	CreatedAt    string     `json:"createdAt"`
	ReleaseAt    string     `json:"releaseAt"`
	UpdatedAt    string     `json:"updatedAt"`
	Tags         []string   `json:"tags"`
	Materials    []string   `json:"materials"`
	Events       []string   `json:"events"`
	Awards       []string   `json:"awards"`
	Users        []string   `json:"users"`
	TeamName     string     `json:"teamName"`
	ViewCount    int        `json:"viewCount"`
	GoodCount    int        `json:"goodCount"`
	CommentCount int        `json:"commentCount"`
}

// Retired reports whether the record carries the configured retired status.
func (r *Record) Retired(retiredStatus int) bool {
	return r.Status.Known && r.Status.Code == retiredStatus
}

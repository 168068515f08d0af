package scenario

import (
	"strings"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
)

// QuerySet holds the requested query keys and their results.
type QuerySet struct {
	keys    []string
	seen    map[string]bool
	results map[string]map[string]any
}

func (q *QuerySet) init() {
	if q.seen == nil {
		q.seen = make(map[string]bool)
		q.results = make(map[string]map[string]any)
	}
}

// Keys returns the requested keys in request order.
func (q *QuerySet) Keys() []string {
	return q.keys
}

// Len returns the number of requested keys.
func (q *QuerySet) Len() int {
	return len(q.keys)
}

// SetResult stores the result fields of one key.
func (q *QuerySet) SetResult(key string, fields map[string]any) {
	q.init()
	if !q.seen[key] {
		q.seen[key] = true
		q.keys = append(q.keys, key)
	}
	q.results[key] = fields
}

// AddQueries appends query keys, preserving request order and case while
// dropping duplicates, blanks and nan-like tokens.
func (s *Scenario) AddQueries(keys []string) {
	s.Queries.init()
	for _, key := range keys {
		if !ValidQueryKey(key) {
			continue
		}
		key = strings.TrimSpace(key)
		if s.Queries.seen[key] {
			continue
		}
		s.Queries.seen[key] = true
		s.Queries.keys = append(s.Queries.keys, key)
	}
}

// ValidQueryKey reports whether a raw token can be a query key: non-blank
// and not a textual missing-value marker.
func ValidQueryKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	switch strings.ToLower(key) {
	case "nan", "na", "n/a", "none", "null":
		return false
	}
	return true
}

// Results renders the query results as a frame with one row per requested
// key and the given result columns. Keys without a stored result leave
// their cells nil.
func (s *Scenario) Results(columns ...string) *frame.Frame {
	s.Queries.init()
	if len(columns) == 0 {
		columns = []string{"present", "future", "unit"}
	}

	cols := make([]frame.Column, len(columns))
	for i, name := range columns {
		cols[i] = frame.Column{Name: name}
	}

	out := frame.New(append([]string(nil), s.Queries.keys...), cols)
	for r, key := range s.Queries.keys {
		fields := s.Queries.results[key]
		for c, name := range columns {
			if v, ok := fields[name]; ok {
				out.SetCell(r, c, v)
			}
		}
	}
	return out
}

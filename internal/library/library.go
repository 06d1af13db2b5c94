// Package library holds the user's saved books.
package library

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrDuplicate reports a save of an entry already present. It is an
	// informational outcome, not a failure.
	ErrDuplicate = errors.New("book already in library")

	// ErrNotFound reports a removal of an entry that is not present.
	ErrNotFound = errors.New("book not found in library")
)

// Entry is one saved book. There is no dedicated identifier: an entry is
// identified by the whole of its fields, so the same book saved with a
// different rating or tags is a distinct entry.
type Entry struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Filename string   `json:"filename"`
	Rating   int      `json:"rating"`
	Tags     []string `json:"tags"`
}

// Equal reports full structural equality, tags included (order sensitive).
func (e Entry) Equal(other Entry) bool {
	if e.Title != other.Title || e.Author != other.Author || e.Filename != other.Filename || e.Rating != other.Rating {
		return false
	}
	if len(e.Tags) != len(other.Tags) {
		return false
	}
	for i := range e.Tags {
		if e.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

// Library is the ordered collection of saved books.
type Library []Entry

// Contains reports whether an entry structurally equal to e is present.
func (l Library) Contains(e Entry) bool {
	for _, existing := range l {
		if existing.Equal(e) {
			return true
		}
	}
	return false
}

// Add appends an entry. A structurally identical entry already in the
// library is rejected with ErrDuplicate and the library is unchanged.
func (l *Library) Add(e Entry) error {
	if l.Contains(e) {
		return ErrDuplicate
	}
	*l = append(*l, e)
	return nil
}

// Remove deletes the first entry structurally equal to e.
func (l *Library) Remove(e Entry) error {
	for i, existing := range *l {
		if existing.Equal(e) {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Filter returns the entries matching all of the given criteria: a
// case-insensitive substring match on title or author, an exact tag match,
// and a minimum rating. An empty query matches everything; an empty tag (or
// "All") disables the tag filter.
func (l Library) Filter(query, tag string, minRating int) Library {
	query = strings.ToLower(query)

	filtered := make(Library, 0, len(l))
	for _, e := range l {
		if query != "" &&
			!strings.Contains(strings.ToLower(e.Title), query) &&
			!strings.Contains(strings.ToLower(e.Author), query) {
			continue
		}
		if tag != "" && tag != "All" && !containsString(e.Tags, tag) {
			continue
		}
		if e.Rating < minRating {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// Tags returns the sorted set of distinct tags across all entries.
func (l Library) Tags() []string {
	seen := make(map[string]struct{})
	for _, e := range l {
		for _, tag := range e.Tags {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

package record

import (
	"slices"
	"strings"
)

// Tags is an insertion ordered set of non-empty tags.
type Tags struct {
	items []string
}

// ParseTags splits a space separated tag list, dropping empty entries.
func ParseTags(raw string) []string {
	return strings.Fields(raw)
}

// Add inserts tag if it is not already present. It reports whether the set changed.
func (t *Tags) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.Has(tag) {
		return false
	}
	t.items = append(t.items, tag)
	return true
}

// Remove deletes tag. It reports whether the tag was present.
func (t *Tags) Remove(tag string) bool {
	i := slices.Index(t.items, strings.TrimSpace(tag))
	if i < 0 {
		return false
	}
	t.items = slices.Delete(t.items, i, i+1)
	return true
}

// Has reports whether tag is in the set.
func (t *Tags) Has(tag string) bool {
	return slices.Contains(t.items, tag)
}

// List returns a copy of the tags in insertion order.
func (t *Tags) List() []string {
	return slices.Clone(t.items)
}

// Len returns the number of tags.
func (t *Tags) Len() int {
	return len(t.items)
}

// Contains reports whether any tag contains query as a substring.
func (t *Tags) Contains(query string) bool {
	for _, tag := range t.items {
		if strings.Contains(tag, query) {
			return true
		}
	}
	return false
}

func (t *Tags) String() string {
	return strings.Join(t.items, ", ")
}

func (t *Tags) clone() Tags {
	return Tags{items: slices.Clone(t.items)}
}

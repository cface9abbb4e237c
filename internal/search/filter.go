// Package search turns optional catalog filters into predicates, both for
// in-memory matching and for SQL pushdown.
//
// Tag and locale match exactly; an empty tag criterion selects untagged
// translations. Key and content match as case-sensitive substrings. Present filters are AND-combined; an empty Filter matches
// every translation.
package search

import (
	"strings"

	"transcatalog/internal/model"
)

// Filter holds the optional search criteria. A nil field imposes no constraint.
type Filter struct {
	Key     *string
	Locale  *string
	Tag     *string
	Content *string
}

// IsEmpty reports whether no criterion is set.
func (f Filter) IsEmpty() bool {
	return f.Key == nil && f.Locale == nil && f.Tag == nil && f.Content == nil
}

// Match evaluates the filter against a single translation.
func (f Filter) Match(t model.Translation) bool {
	if f.Tag != nil {
		if *f.Tag == "" {
			if t.Tag != nil {
				return false
			}
		} else if t.Tag == nil || *t.Tag != *f.Tag {
			return false
		}
	}
	if f.Locale != nil && t.Locale != *f.Locale {
		return false
	}
	if f.Key != nil && !strings.Contains(t.Key, *f.Key) {
		return false
	}
	if f.Content != nil && !strings.Contains(t.Content, *f.Content) {
		return false
	}
	return true
}

// Where renders the filter as a SQLite WHERE body and its arguments.
// instr is used instead of LIKE because LIKE folds ASCII case and treats
// % and _ as wildcards. The clause is empty when the filter is empty.
func (f Filter) Where() (string, []any) {
	var (
		conditions []string
		args       []any
	)

	switch {
	case f.Tag == nil:
	case *f.Tag == "":
		conditions = append(conditions, "tag IS NULL")
	default:
		conditions = append(conditions, "tag = ?")
		args = append(args, *f.Tag)
	}
	if f.Locale != nil {
		conditions = append(conditions, "locale = ?")
		args = append(args, *f.Locale)
	}
	if f.Key != nil {
		conditions = append(conditions, "instr(key, ?) > 0")
		args = append(args, *f.Key)
	}
	if f.Content != nil {
		conditions = append(conditions, "instr(content, ?) > 0")
		args = append(args, *f.Content)
	}

	return strings.Join(conditions, " AND "), args
}

// Apply filters an in-memory slice, preserving order.
func (f Filter) Apply(items []model.Translation) []model.Translation {
	if f.IsEmpty() {
		return items
	}
	out := make([]model.Translation, 0, len(items))
	for _, t := range items {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

package note

import (
	"cmp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/heartmarshall/keepnotes/internal/domain"
)

// AllCategory selects every note regardless of tags.
const AllCategory = "notes"

// SortKey names an ordering for projections.
type SortKey string

const (
	SortNone SortKey = ""
	// Priority sorts compare the raw tokens, so "high" < "low" < "medium".
	SortPriorityLowHigh SortKey = "priority_low_high"
	SortPriorityHighLow SortKey = "priority_high_low"
	// Severity sorts rank low < medium < high.
	SortSeverityLowHigh SortKey = "severity_low_high"
	SortSeverityHighLow SortKey = "severity_high_low"
	SortDateLatest      SortKey = "date_latest"
	SortDateCreated     SortKey = "date_created"
	SortDateEdited      SortKey = "date_edited"
	SortDateEditedOld   SortKey = "date_edited_oldest"
)

func (k SortKey) String() string { return string(k) }

func (k SortKey) IsValid() bool {
	switch k {
	case SortNone, SortPriorityLowHigh, SortPriorityHighLow,
		SortSeverityLowHigh, SortSeverityHighLow,
		SortDateLatest, SortDateCreated, SortDateEdited, SortDateEditedOld:
		return true
	}
	return false
}

// SortKeys lists every non-empty sort key.
var SortKeys = []SortKey{
	SortPriorityLowHigh, SortPriorityHighLow,
	SortSeverityLowHigh, SortSeverityHighLow,
	SortDateLatest, SortDateCreated, SortDateEdited, SortDateEditedOld,
}

// Query describes a read-only view over a list of notes.
type Query struct {
	// Category is a tag label matched case-insensitively. Empty or "notes"
	// selects everything.
	Category string
	// Search is a case-insensitive substring of title, content or a tag.
	Search string
	// TagGlob is a doublestar pattern at least one tag must match.
	TagGlob string
	Sort    SortKey
}

// Validate checks the sort key and glob syntax.
func (q Query) Validate() error {
	var errs []domain.FieldError
	if !q.Sort.IsValid() {
		errs = append(errs, domain.FieldError{Field: "sort", Message: "unknown sort key"})
	}
	if q.TagGlob != "" && !doublestar.ValidatePattern(q.TagGlob) {
		errs = append(errs, domain.FieldError{Field: "tag_glob", Message: "invalid pattern"})
	}
	return domain.NewValidationErrors(errs)
}

// Projection is a filtered and sorted view with pinned notes grouped first.
type Projection struct {
	Pinned []domain.Note `json:"pinned"`
	Others []domain.Note `json:"others"`
}

// All returns pinned notes followed by the others.
func (p Projection) All() []domain.Note {
	return slices.Concat(p.Pinned, p.Others)
}

// Len is the number of notes in the projection.
func (p Projection) Len() int { return len(p.Pinned) + len(p.Others) }

// Project filters, sorts and groups notes. It never modifies its input.
func Project(notes []domain.Note, q Query) (Projection, error) {
	if err := q.Validate(); err != nil {
		return Projection{}, err
	}

	matched := make([]domain.Note, 0, len(notes))
	for _, n := range notes {
		if matchCategory(n, q.Category) && matchSearch(n, q.Search) && matchGlob(n, q.TagGlob) {
			matched = append(matched, n)
		}
	}

	if cmpFn := comparator(q.Sort); cmpFn != nil {
		slices.SortStableFunc(matched, cmpFn)
	}

	p := Projection{Pinned: []domain.Note{}, Others: []domain.Note{}}
	for _, n := range matched {
		if n.Pinned {
			p.Pinned = append(p.Pinned, n)
		} else {
			p.Others = append(p.Others, n)
		}
	}
	return p, nil
}

func matchCategory(n domain.Note, category string) bool {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategory) {
		return true
	}
	return slices.ContainsFunc(n.Tags, func(t string) bool {
		return strings.EqualFold(t, category)
	})
}

func matchSearch(n domain.Note, search string) bool {
	if search == "" {
		return true
	}
	if domain.ContainsFold(n.Title, search) || domain.ContainsFold(n.Content, search) {
		return true
	}
	return slices.ContainsFunc(n.Tags, func(t string) bool {
		return domain.ContainsFold(t, search)
	})
}

func matchGlob(n domain.Note, pattern string) bool {
	if pattern == "" {
		return true
	}
	return slices.ContainsFunc(n.Tags, func(t string) bool {
		ok, _ := doublestar.Match(pattern, t)
		return ok
	})
}

func comparator(k SortKey) func(a, b domain.Note) int {
	switch k {
	case SortPriorityLowHigh:
		return func(a, b domain.Note) int { return strings.Compare(string(a.Priority), string(b.Priority)) }
	case SortPriorityHighLow:
		return func(a, b domain.Note) int { return strings.Compare(string(b.Priority), string(a.Priority)) }
	case SortSeverityLowHigh:
		return func(a, b domain.Note) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	case SortSeverityHighLow:
		return func(a, b domain.Note) int { return cmp.Compare(b.Priority.Rank(), a.Priority.Rank()) }
	case SortDateLatest:
		return func(a, b domain.Note) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortDateCreated:
		return func(a, b domain.Note) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortDateEdited:
		return func(a, b domain.Note) int { return b.EditedAt.Compare(a.EditedAt) }
	case SortDateEditedOld:
		return func(a, b domain.Note) int { return a.EditedAt.Compare(b.EditedAt) }
	}
	return nil
}

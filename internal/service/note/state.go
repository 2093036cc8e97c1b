package note

import (
	"slices"

	"github.com/heartmarshall/keepnotes/internal/domain"
)

// State is an immutable snapshot of the three note collections.
// Transitions never modify a State in place, so a snapshot may be shared
// with readers without copying. Readers must not modify it either.
type State struct {
	Active   []domain.Note
	Archived []domain.Note
	Trashed  []domain.Note
}

// List returns the notes of collection c in store order.
func (s State) List(c domain.Collection) []domain.Note {
	switch c {
	case domain.CollectionActive:
		return s.Active
	case domain.CollectionArchived:
		return s.Archived
	case domain.CollectionTrashed:
		return s.Trashed
	}
	return nil
}

// duplicateID reports the first id found in more than one place.
func (s State) duplicateID() (string, bool) {
	seen := make(map[string]struct{}, s.Len())
	for _, c := range collections {
		for _, n := range s.List(c) {
			if _, ok := seen[n.ID]; ok {
				return n.ID, true
			}
			seen[n.ID] = struct{}{}
		}
	}
	return "", false
}

// Find looks id up across all collections.
func (s State) Find(id string) (domain.Note, domain.Collection, bool) {
	for _, c := range collections {
		if i := indexOf(s.List(c), id); i >= 0 {
			return s.List(c)[i], c, true
		}
	}
	return domain.Note{}, "", false
}

// Len is the total number of notes across all collections.
func (s State) Len() int {
	return len(s.Active) + len(s.Archived) + len(s.Trashed)
}

// Counts is the size of each collection.
type Counts struct {
	Active   int `json:"active"`
	Archived int `json:"archived"`
	Trashed  int `json:"trashed"`
}

// Counts reports the size of each collection.
func (s State) Counts() Counts {
	return Counts{Active: len(s.Active), Archived: len(s.Archived), Trashed: len(s.Trashed)}
}

var collections = []domain.Collection{
	domain.CollectionActive,
	domain.CollectionArchived,
	domain.CollectionTrashed,
}

func (s State) with(c domain.Collection, list []domain.Note) State {
	switch c {
	case domain.CollectionActive:
		s.Active = list
	case domain.CollectionArchived:
		s.Archived = list
	case domain.CollectionTrashed:
		s.Trashed = list
	}
	return s
}

func indexOf(list []domain.Note, id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(list, func(n domain.Note) bool { return n.ID == id })
}

// appended returns a new slice holding list followed by n.
func appended(list []domain.Note, n domain.Note) []domain.Note {
	out := make([]domain.Note, len(list), len(list)+1)
	copy(out, list)
	return append(out, n)
}

// without returns a new slice holding list minus the element at i.
func without(list []domain.Note, i int) []domain.Note {
	out := make([]domain.Note, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// replaced returns a new slice with the element at i set to n.
func replaced(list []domain.Note, i int, n domain.Note) []domain.Note {
	out := slices.Clone(list)
	out[i] = n
	return out
}

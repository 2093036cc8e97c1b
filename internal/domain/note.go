package domain

import (
	"slices"
	"time"
)

// Note is one user-authored note. Values are treated as immutable once
// placed in a store; mutations produce a new Note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Priority  Priority  `json:"priority"`
	Tags      []string  `json:"tags"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	EditedAt  time.Time `json:"editedAt"`
}

// Clone returns a copy that shares no mutable memory with n.
func (n Note) Clone() Note {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}

// NoteFields are the user-editable fields of a note.
type NoteFields struct {
	Title    string
	Content  string
	Color    string
	Priority Priority
	Tags     []string
}

// Normalized returns a copy with tags normalized and an empty priority
// defaulted to low.
func (f NoteFields) Normalized() NoteFields {
	f.Tags = NormalizeTags(f.Tags)
	if f.Priority == "" {
		f.Priority = PriorityLow
	}
	return f
}

// Draft supplies the fields for a note that does not exist yet.
type Draft = NoteFields

// DefaultColor is the background token used when a caller leaves color empty.
const DefaultColor = "#ffffff"

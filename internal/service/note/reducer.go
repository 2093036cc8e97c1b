package note

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/keepnotes/internal/domain"
)

// maxIDAttempts bounds id regeneration when a generator collides with an
// existing note.
const maxIDAttempts = 8

// Result reports what Apply did. Note holds the affected note after the
// transition (for Purge, the note as it was before removal). It is the zero
// value when nothing was applied.
type Result struct {
	Outcome domain.Outcome
	Note    domain.Note
}

// Reducer applies commands to states. It has no state of its own; Now and
// NewID are its only sources of non-determinism.
type Reducer struct {
	Now   func() time.Time
	NewID func() string
}

// DefaultReducer uses the wall clock in UTC and random UUIDs.
func DefaultReducer() Reducer {
	return Reducer{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// Apply returns the state that results from cmd. The input state is never
// modified. A command that refers to a note outside its source collection
// leaves the state unchanged and reports OutcomeNotFound.
func (r Reducer) Apply(s State, cmd Command) (State, Result) {
	switch c := cmd.(type) {
	case Create:
		return r.create(s, c.Draft)
	case Update:
		return r.update(s, c)
	case Remove:
		return move(s, c.ID, domain.CollectionActive, domain.CollectionTrashed)
	case Archive:
		return move(s, c.ID, domain.CollectionActive, domain.CollectionArchived)
	case Unarchive:
		return move(s, c.ID, domain.CollectionArchived, domain.CollectionActive)
	case Restore:
		return move(s, c.ID, domain.CollectionTrashed, domain.CollectionActive)
	case Purge:
		return purge(s, c.ID)
	case TogglePin:
		return editActive(s, c.ID, func(n domain.Note) domain.Note {
			n.Pinned = !n.Pinned
			return n
		})
	case SetPriority:
		p := c.Priority
		if p == "" {
			p = domain.PriorityLow
		}
		if !p.IsValid() {
			return s, Result{Outcome: domain.OutcomeInvalid}
		}
		now := r.Now()
		return editActive(s, c.ID, func(n domain.Note) domain.Note {
			n.Priority = p
			n.EditedAt = now
			return n
		})
	case SetTags:
		tags := domain.NormalizeTags(c.Tags)
		now := r.Now()
		return editActive(s, c.ID, func(n domain.Note) domain.Note {
			n.Tags = tags
			n.EditedAt = now
			return n
		})
	}
	panic(fmt.Sprintf("note: unhandled command %T", cmd))
}

func (r Reducer) create(s State, draft domain.Draft) (State, Result) {
	f := draft.Normalized()
	if !f.Priority.IsValid() {
		return s, Result{Outcome: domain.OutcomeInvalid}
	}

	id := ""
	for range maxIDAttempts {
		candidate := r.NewID()
		if _, _, taken := s.Find(candidate); candidate != "" && !taken {
			id = candidate
			break
		}
	}
	if id == "" {
		return s, Result{Outcome: domain.OutcomeInvalid}
	}

	now := r.Now()
	n := domain.Note{
		ID:        id,
		Title:     f.Title,
		Content:   f.Content,
		Color:     f.Color,
		Priority:  f.Priority,
		Tags:      f.Tags,
		Pinned:    false,
		CreatedAt: now,
		EditedAt:  now,
	}
	s.Active = appended(s.Active, n)
	return s, Result{Outcome: domain.OutcomeApplied, Note: n}
}

func (r Reducer) update(s State, c Update) (State, Result) {
	f := c.Fields.Normalized()
	if !f.Priority.IsValid() {
		return s, Result{Outcome: domain.OutcomeInvalid}
	}
	now := r.Now()
	return editActive(s, c.ID, func(n domain.Note) domain.Note {
		n.Title = f.Title
		n.Content = f.Content
		n.Color = f.Color
		n.Priority = f.Priority
		n.Tags = f.Tags
		n.EditedAt = now
		return n
	})
}

func move(s State, id string, from, to domain.Collection) (State, Result) {
	src := s.List(from)
	i := indexOf(src, id)
	if i < 0 {
		return s, Result{Outcome: domain.OutcomeNotFound}
	}
	n := src[i]
	s = s.with(from, without(src, i))
	s = s.with(to, appended(s.List(to), n))
	return s, Result{Outcome: domain.OutcomeApplied, Note: n}
}

func purge(s State, id string) (State, Result) {
	i := indexOf(s.Trashed, id)
	if i < 0 {
		return s, Result{Outcome: domain.OutcomeNotFound}
	}
	n := s.Trashed[i]
	s.Trashed = without(s.Trashed, i)
	return s, Result{Outcome: domain.OutcomeApplied, Note: n}
}

func editActive(s State, id string, edit func(domain.Note) domain.Note) (State, Result) {
	i := indexOf(s.Active, id)
	if i < 0 {
		return s, Result{Outcome: domain.OutcomeNotFound}
	}
	n := edit(s.Active[i])
	s.Active = replaced(s.Active, i, n)
	return s, Result{Outcome: domain.OutcomeApplied, Note: n}
}

package note

import "github.com/heartmarshall/keepnotes/internal/domain"

// Command is a mutation request for the note store. The set of commands is
// closed: only the types in this file implement it.
type Command interface {
	// Name identifies the command in logs and metrics.
	Name() string
	command()
}

// Create appends a new note built from Draft to the active collection.
type Create struct {
	Draft domain.Draft
}

// Update replaces the editable fields of an active note.
type Update struct {
	ID     string
	Fields domain.NoteFields
}

// Remove moves an active note to the trash.
type Remove struct{ ID string }

// Archive moves an active note to the archive.
type Archive struct{ ID string }

// Unarchive moves an archived note back to the active collection.
type Unarchive struct{ ID string }

// Restore moves a trashed note back to the active collection.
type Restore struct{ ID string }

// Purge deletes a trashed note permanently.
type Purge struct{ ID string }

// TogglePin flips the pinned flag of an active note.
type TogglePin struct{ ID string }

// SetPriority changes only the priority of an active note.
type SetPriority struct {
	ID       string
	Priority domain.Priority
}

// SetTags replaces only the tags of an active note.
type SetTags struct {
	ID   string
	Tags []string
}

func (Create) Name() string      { return "create" }
func (Update) Name() string      { return "update" }
func (Remove) Name() string      { return "remove" }
func (Archive) Name() string     { return "archive" }
func (Unarchive) Name() string   { return "unarchive" }
func (Restore) Name() string     { return "restore" }
func (Purge) Name() string       { return "purge" }
func (TogglePin) Name() string   { return "toggle_pin" }
func (SetPriority) Name() string { return "set_priority" }
func (SetTags) Name() string     { return "set_tags" }

func (Create) command()      {}
func (Update) command()      {}
func (Remove) command()      {}
func (Archive) command()     {}
func (Unarchive) command()   {}
func (Restore) command()     {}
func (Purge) command()       {}
func (TogglePin) command()   {}
func (SetPriority) command() {}
func (SetTags) command()     {}

// targetID returns the note id a command refers to, or "" for Create.
func targetID(cmd Command) string {
	switch c := cmd.(type) {
	case Update:
		return c.ID
	case Remove:
		return c.ID
	case Archive:
		return c.ID
	case Unarchive:
		return c.ID
	case Restore:
		return c.ID
	case Purge:
		return c.ID
	case TogglePin:
		return c.ID
	case SetPriority:
		return c.ID
	case SetTags:
		return c.ID
	}
	return ""
}

package domain

// Priority is the importance token a note carries.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) String() string { return string(p) }

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities by severity: low < medium < high.
// Unknown tokens rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

// Collection names one of the three disjoint note lists.
type Collection string

const (
	CollectionActive   Collection = "active"
	CollectionArchived Collection = "archived"
	CollectionTrashed  Collection = "trashed"
)

func (c Collection) String() string { return string(c) }

// ParseCollection accepts the canonical names plus "trash" and "archive".
// Empty input selects the active collection.
func ParseCollection(s string) (Collection, bool) {
	switch NormalizeText(s) {
	case "", "active":
		return CollectionActive, true
	case "archived", "archive":
		return CollectionArchived, true
	case "trashed", "trash":
		return CollectionTrashed, true
	}
	return "", false
}

// Outcome reports what a dispatched command did to a store.
type Outcome string

const (
	OutcomeApplied   Outcome = "APPLIED"
	OutcomeNotFound  Outcome = "NOT_FOUND"
	OutcomeDuplicate Outcome = "DUPLICATE"
	OutcomeInvalid   Outcome = "INVALID"
	OutcomeClosed    Outcome = "CLOSED"
)

func (o Outcome) String() string { return string(o) }

// Applied reports whether the command changed state.
func (o Outcome) Applied() bool { return o == OutcomeApplied }

// Err maps a no-op outcome to its sentinel error. Applied maps to nil.
func (o Outcome) Err() error {
	switch o {
	case OutcomeApplied:
		return nil
	case OutcomeNotFound:
		return ErrNotFound
	case OutcomeDuplicate:
		return ErrAlreadyExists
	case OutcomeInvalid:
		return ErrValidation
	case OutcomeClosed:
		return ErrClosed
	}
	return ErrValidation
}

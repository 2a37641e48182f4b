// Package repository defines the backend-agnostic contract for task storage.
package repository

// Task represents a single task item.
// A nil Title or Description means the backend holds no value for the field;
// a pointer to "" means the field is present but empty.
type Task struct {
	ID          string
	Title       *string
	Description *string
	Completed   bool
}

// TitleOrEmpty returns the title, or "" when it is nil.
func (t Task) TitleOrEmpty() string {
	if t.Title == nil {
		return ""
	}
	return *t.Title
}

// DescriptionOrEmpty returns the description, or "" when it is nil.
func (t Task) DescriptionOrEmpty() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// String returns a pointer to s. Handy for building Tasks in callers and tests.
func String(s string) *string {
	return &s
}

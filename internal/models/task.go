package models

import "time"

const DueDateLayout = time.DateOnly

type Task struct {
	ID      int64
	Text    string
	Done    bool
	Due     *time.Time
	ListID  int64
	OwnerID int64
}

// DueDate returns the due date as YYYY-MM-DD, or an empty string.
func (t *Task) DueDate() string {
	if t.Due == nil {
		return ""
	}
	return t.Due.Format(DueDateLayout)
}

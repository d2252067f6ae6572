package models

import "time"

type List struct {
	ID        int64
	Name      string
	OwnerID   int64
	CreatedAt time.Time
}

// Created is the creation date as it is shown to users.
func (l *List) Created() string {
	return l.CreatedAt.Format("January 02, 2006")
}

package models

import "time"

// Principal is whoever issued the current request.
type Principal interface {
	ID() int64
	IsAuthenticated() bool
}

type User struct {
	UserID    int64
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}

func (u *User) ID() int64 {
	return u.UserID
}

func (u *User) IsAuthenticated() bool {
	return u != nil && u.UserID != 0
}

type anonymous struct{}

func (anonymous) ID() int64             { return 0 }
func (anonymous) IsAuthenticated() bool { return false }

// Anonymous is the principal of requests without a valid session.
var Anonymous Principal = anonymous{}

package models

import (
	"testing"
	"time"
)

func TestPrincipals(t *testing.T) {
	tests := []struct {
		name     string
		p        Principal
		wantID   int64
		wantAuth bool
	}{
		{"anonymous", Anonymous, 0, false},
		{"user", &User{UserID: 7, Email: "a@x.com"}, 7, true},
		{"unsaved user", &User{Email: "a@x.com"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.ID(); got != tt.wantID {
				t.Errorf("ID: got %d, want %d", got, tt.wantID)
			}
			if got := tt.p.IsAuthenticated(); got != tt.wantAuth {
				t.Errorf("IsAuthenticated: got %v, want %v", got, tt.wantAuth)
			}
		})
	}
}

func TestListCreated(t *testing.T) {
	l := List{CreatedAt: time.Date(2024, time.March, 5, 13, 0, 0, 0, time.UTC)}
	if got, want := l.Created(), "March 05, 2024"; got != want {
		t.Errorf("Created: got %q, want %q", got, want)
	}
}

func TestTaskDueDate(t *testing.T) {
	due := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	withDue := Task{Due: &due}
	if got := withDue.DueDate(); got != "2024-01-01" {
		t.Errorf("DueDate: got %q, want 2024-01-01", got)
	}

	var noDue Task
	if got := noDue.DueDate(); got != "" {
		t.Errorf("DueDate: got %q, want empty", got)
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now}
	if !s.Expired(now) {
		t.Error("session expiring now should be expired")
	}
	if s.Expired(now.Add(-time.Second)) {
		t.Error("session should not be expired before ExpiresAt")
	}
}

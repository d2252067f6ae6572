package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-todo-lists/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrListNotFound       = errors.New("list not found")
	ErrListAlreadyExists  = errors.New("list already exists")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskAlreadyExists  = errors.New("task already exists")
)

type AuthService interface {
	// Register creates a user with a hashed password and logs them in.
	//
	// It returns ErrUserAlreadyExists if a user with
	// the given email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Login checks the email and password and creates a new session.
	// Sessions of the same user with the same fingerprint are replaced.
	//
	// It returns ErrInvalidCredentials both for an unknown email
	// and for a password mismatch.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Authenticate resolves a session token to its user and session.
	//
	// It returns ErrInvalidToken, ErrSessionNotFound or ErrSessionExpired
	// when the token can't identify a live session, and ErrUserNotFound if
	// the session points to a user that no longer exists.
	Authenticate(ctx context.Context, params AuthenticateParams) (*models.User, *models.Session, error)

	// Logout deletes the session. Deleting a missing session is not an error.
	Logout(ctx context.Context, sessionID string) error
}

type UserService interface {
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteExpiredSessions(ctx context.Context, userID int64) (int64, error)
}

type ListService interface {
	// CreateList returns ErrListAlreadyExists if any user
	// already has a list with the same name.
	CreateList(ctx context.Context, params CreateListParams) (*models.List, error)
	GetListByID(ctx context.Context, listID int64) (*models.List, error)
	GetListByName(ctx context.Context, name string) (*models.List, error)
	GetListsByOwnerID(ctx context.Context, ownerID int64) ([]*models.List, error)

	// DeleteList deletes the list together with its tasks.
	DeleteList(ctx context.Context, listID int64) error
}

type TaskService interface {
	// CreateTask returns ErrTaskAlreadyExists if the list
	// already has a task with the same text.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	GetTaskByID(ctx context.Context, taskID int64) (*models.Task, error)
	GetTaskByTextInList(ctx context.Context, text string, listID int64) (*models.Task, error)

	// GetTasksByListID returns the tasks ordered by due date,
	// tasks without one last.
	GetTasksByListID(ctx context.Context, listID int64) ([]*models.Task, error)
	ToggleTaskDone(ctx context.Context, taskID int64) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID int64) (*models.Task, error)
}

type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	Fingerprint string
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	User           *models.User
	SessionID      string
	Token          string
	TokenExpiresAt time.Time
}

type AuthenticateParams struct {
	Token       string
	Fingerprint string
}

type CreateListParams struct {
	Name    string
	OwnerID int64
}

type CreateTaskParams struct {
	Text    string
	Due     *time.Time
	OwnerID int64
	ListID  int64
}

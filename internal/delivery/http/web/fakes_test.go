package web

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adanyl0v/go-todo-lists/internal/models"
	"github.com/adanyl0v/go-todo-lists/internal/services"
)

type fakeSession struct {
	userID      int64
	fingerprint string
}

// fakeStore keeps users, sessions, lists and tasks in memory and
// implements the service interfaces the handlers depend on.
type fakeStore struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	sessions map[string]fakeSession
	lists    map[int64]*models.List
	tasks    map[int64]*models.Task
	nextID   int64
	nextSID  int64
	pingErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*models.User),
		sessions: make(map[string]fakeSession),
		lists:    make(map[int64]*models.List),
		tasks:    make(map[int64]*models.Task),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) userByEmail(email string) *models.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *fakeStore) newSession(user *models.User, fingerprint string) *services.LoginResult {
	s.nextSID++
	sessionID := "session-" + strconv.FormatInt(s.nextSID, 10)
	s.sessions[sessionID] = fakeSession{userID: user.UserID, fingerprint: fingerprint}
	return &services.LoginResult{
		User:           user,
		SessionID:      sessionID,
		Token:          "token:" + sessionID,
		TokenExpiresAt: time.Now().Add(time.Hour),
	}
}

func (s *fakeStore) Register(_ context.Context, params services.RegisterParams) (*services.LoginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userByEmail(params.Email) != nil {
		return nil, services.ErrUserAlreadyExists
	}
	user := &models.User{
		UserID:   s.id(),
		Name:     params.Name,
		Email:    params.Email,
		Password: "hashed:" + params.Password,
	}
	s.users[user.UserID] = user
	return s.newSession(user, params.Fingerprint), nil
}

func (s *fakeStore) Login(_ context.Context, params services.LoginParams) (*services.LoginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.userByEmail(params.Email)
	if user == nil || user.Password != "hashed:"+params.Password {
		return nil, services.ErrInvalidCredentials
	}
	return s.newSession(user, params.Fingerprint), nil
}

func (s *fakeStore) Authenticate(_ context.Context, params services.AuthenticateParams) (*models.User, *models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID, ok := strings.CutPrefix(params.Token, "token:")
	if !ok {
		return nil, nil, services.ErrInvalidToken
	}
	session, ok := s.sessions[sessionID]
	if !ok || session.fingerprint != params.Fingerprint {
		return nil, nil, services.ErrSessionNotFound
	}
	user, ok := s.users[session.userID]
	if !ok {
		return nil, nil, services.ErrUserNotFound
	}
	return user, &models.Session{ID: sessionID, UserID: user.UserID}, nil
}

func (s *fakeStore) Logout(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *fakeStore) CreateList(_ context.Context, params services.CreateListParams) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.lists {
		if l.Name == params.Name {
			return nil, services.ErrListAlreadyExists
		}
	}
	list := &models.List{
		ID:        s.id(),
		Name:      params.Name,
		OwnerID:   params.OwnerID,
		CreatedAt: time.Now(),
	}
	s.lists[list.ID] = list
	return list, nil
}

func (s *fakeStore) GetListByID(_ context.Context, listID int64) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[listID]
	if !ok {
		return nil, services.ErrListNotFound
	}
	return list, nil
}

func (s *fakeStore) GetListByName(_ context.Context, name string) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.lists {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, services.ErrListNotFound
}

func (s *fakeStore) GetListsByOwnerID(_ context.Context, ownerID int64) ([]*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lists []*models.List
	for _, l := range s.lists {
		if l.OwnerID == ownerID {
			lists = append(lists, l)
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	return lists, nil
}

func (s *fakeStore) DeleteList(_ context.Context, listID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lists[listID]; !ok {
		return services.ErrListNotFound
	}
	for id, t := range s.tasks {
		if t.ListID == listID {
			delete(s.tasks, id)
		}
	}
	delete(s.lists, listID)
	return nil
}

func (s *fakeStore) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ListID == params.ListID && t.Text == params.Text {
			return nil, services.ErrTaskAlreadyExists
		}
	}
	task := &models.Task{
		ID:      s.id(),
		Text:    params.Text,
		Due:     params.Due,
		ListID:  params.ListID,
		OwnerID: params.OwnerID,
	}
	s.tasks[task.ID] = task
	return task, nil
}

func (s *fakeStore) GetTaskByID(_ context.Context, taskID int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	return task, nil
}

func (s *fakeStore) GetTaskByTextInList(_ context.Context, text string, listID int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ListID == listID && t.Text == text {
			return t, nil
		}
	}
	return nil, services.ErrTaskNotFound
}

func (s *fakeStore) GetTasksByListID(_ context.Context, listID int64) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tasks []*models.Task
	for _, t := range s.tasks {
		if t.ListID == listID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.Due == nil && b.Due == nil:
			return a.ID < b.ID
		case a.Due == nil:
			return false
		case b.Due == nil:
			return true
		case !a.Due.Equal(*b.Due):
			return a.Due.Before(*b.Due)
		default:
			return a.ID < b.ID
		}
	})
	return tasks, nil
}

func (s *fakeStore) ToggleTaskDone(_ context.Context, taskID int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	task.Done = !task.Done
	return task, nil
}

func (s *fakeStore) DeleteTask(_ context.Context, taskID int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return task, nil
}

func (s *fakeStore) Ping(context.Context) error {
	return s.pingErr
}

var errStorageDown = errors.New("storage down")

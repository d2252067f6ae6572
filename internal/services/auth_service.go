package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lists/internal/models"
)

type authServiceImpl struct {
	logger       zerolog.Logger
	pgPool       *pgxpool.Pool
	users        UserService
	sessions     SessionService
	hasher       PasswordHasher
	tokenIssuer  string
	tokenSignKey []byte
	sessionTTL   time.Duration

	dummyHashOnce sync.Once
	dummyHash     string
}

func NewAuthService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	userService UserService,
	sessionService SessionService,
	hasher PasswordHasher,
	tokenIssuer string,
	tokenSigningKey []byte,
	sessionTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger:       logger,
		pgPool:       pgPool,
		users:        userService,
		sessions:     sessionService,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenSignKey: tokenSigningKey,
		sessionTTL:   sessionTTL,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*LoginResult, error) {
	user := &models.User{
		Name:      params.Name,
		Email:     params.Email,
		CreatedAt: time.Now(),
	}

	_, err := s.users.GetUserByEmail(ctx, user.Email)
	if err == nil {
		s.logger.Error().
			Str("email", user.Email).
			Msg("user with this email already exists")
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.Password = passwordHash

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertUserQuery = `
INSERT INTO users (name,
                   email,
                   password,
                   created_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`
	err = tx.QueryRow(
		ctx,
		insertUserQuery,
		user.Name,
		user.Email,
		user.Password,
		user.CreatedAt,
	).Scan(&user.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.UserID).
		Str("email", user.Email).
		Msg("inserted user")

	session, err := s.insertSession(ctx, tx, user.UserID, params.Fingerprint)
	if err != nil {
		return nil, err
	}

	result, err := s.newLoginResult(user, session)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.UserID).
		Str("session_id", session.ID).
		Msg("registered user")
	return result, nil
}

// verifyDummyHash spends the time of a real password check so that
// unknown emails answer as slowly as wrong passwords.
func (s *authServiceImpl) verifyDummyHash(password string) {
	s.dummyHashOnce.Do(func() {
		hash, err := s.hasher.Hash("dummy-password")
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to hash dummy password")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(password, s.dummyHash)
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.Error().
				Str("email", params.Email).
				Msg("login with unknown email")
			s.verifyDummyHash(params.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := s.hasher.Verify(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().
			Int64("user_id", user.UserID).
			Msg("passwords do not match")
		return nil, ErrInvalidCredentials
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const deleteSessionsQuery = `
DELETE FROM sessions
WHERE user_id = $1 AND fingerprint = $2
`
	tag, err := tx.Exec(
		ctx,
		deleteSessionsQuery,
		user.UserID,
		params.Fingerprint,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to delete sessions by fingerprint")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.UserID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted sessions by fingerprint")

	session, err := s.insertSession(ctx, tx, user.UserID, params.Fingerprint)
	if err != nil {
		return nil, err
	}

	result, err := s.newLoginResult(user, session)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	// Sessions from other browsers are left alone, only dead ones go.
	_, err = s.sessions.DeleteExpiredSessions(ctx, user.UserID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("user_id", user.UserID).
			Msg("failed to prune expired sessions")
	}

	s.logger.Info().
		Int64("user_id", user.UserID).
		Str("session_id", session.ID).
		Msg("logged in")
	return result, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, params AuthenticateParams) (*models.User, *models.Session, error) {
	claims, err := s.parseToken(params.Token)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Msg("failed to parse session token")
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil, ErrSessionExpired
		}
		return nil, nil, ErrInvalidToken
	}

	session, err := s.sessions.GetSessionByID(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}

	if session.Expired(time.Now()) {
		s.logger.Debug().
			Str("session_id", session.ID).
			Time("expires_at", session.ExpiresAt).
			Msg("session expired")
		return nil, nil, ErrSessionExpired
	}

	if session.Fingerprint != params.Fingerprint {
		s.logger.Warn().
			Str("session_id", session.ID).
			Msg("fingerprint mismatch")
		return nil, nil, ErrSessionNotFound
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug().
		Int64("user_id", user.UserID).
		Str("session_id", session.ID).
		Msg("authenticated session")
	return user, session, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		s.logger.Debug().
			Str("session_id", sessionID).
			Msg("logout with malformed session id")
		return nil
	}

	const deleteSessionQuery = `
DELETE FROM sessions
WHERE id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteSessionQuery,
		sessionID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to delete session")
		return err
	}
	s.logger.Debug().
		Str("session_id", sessionID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted session")

	s.logger.Info().
		Str("session_id", sessionID).
		Msg("logged out")
	return nil
}

func (s *authServiceImpl) insertSession(ctx context.Context, tx pgx.Tx, userID int64, fingerprint string) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		UserID:      userID,
		Fingerprint: fingerprint,
		ExpiresAt:   now.Add(s.sessionTTL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	sessionUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session uuid")
		return nil, err
	}
	session.ID = sessionUUID.String()

	const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      fingerprint,
                      expires_at,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = tx.Exec(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.Fingerprint,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert session")
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("inserted session")
	return session, nil
}

func (s *authServiceImpl) newLoginResult(user *models.User, session *models.Session) (*LoginResult, error) {
	token, err := s.generateToken(session)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session token")
		return nil, err
	}

	return &LoginResult{
		User:           user,
		SessionID:      session.ID,
		Token:          token,
		TokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) generateToken(session *models.Session) (string, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.tokenIssuer,
		Subject:   session.ID,
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.tokenSignKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *authServiceImpl) parseToken(token string) (*jwt.RegisteredClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.tokenSignKey, nil
		},
		jwt.WithIssuer(s.tokenIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}
	if _, err = uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("malformed subject: %w", err)
	}
	return claims, nil
}

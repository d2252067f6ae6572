package services

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lists/internal/models"
)

type userServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewUserService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) UserService {
	return &userServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const selectUserColumns = `
SELECT id,
       name,
       email,
       password,
       created_at
FROM users
`

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := scanUser(s.pgPool.QueryRow(ctx, selectUserColumns+`WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Int64("user_id", userID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to select user by id")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.UserID).
		Msg("selected user by id")
	return user, nil
}

func (s *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.pgPool.QueryRow(ctx, selectUserColumns+`WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Str("email", email).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.UserID).
		Str("email", user.Email).
		Msg("selected user by email")
	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := new(models.User)
	err := row.Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

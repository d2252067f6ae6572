package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lists/internal/models"
)

type listServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewListService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ListService {
	return &listServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *listServiceImpl) CreateList(ctx context.Context, params CreateListParams) (*models.List, error) {
	_, err := s.GetListByName(ctx, params.Name)
	if err == nil {
		s.logger.Error().
			Str("name", params.Name).
			Msg("list with this name already exists")
		return nil, ErrListAlreadyExists
	} else if !errors.Is(err, ErrListNotFound) {
		return nil, err
	}

	list := &models.List{
		Name:      params.Name,
		OwnerID:   params.OwnerID,
		CreatedAt: time.Now(),
	}

	const insertListQuery = `
INSERT INTO lists (name,
                   owner_id,
                   created_at)
VALUES ($1, $2, $3)
RETURNING id
`
	err = s.pgPool.QueryRow(
		ctx,
		insertListQuery,
		list.Name,
		list.OwnerID,
		list.CreatedAt,
	).Scan(&list.ID)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Error().
				Str("name", list.Name).
				Msg("list with this name already exists")
			return nil, ErrListAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert list")
		return nil, err
	}

	s.logger.Info().
		Int64("list_id", list.ID).
		Int64("owner_id", list.OwnerID).
		Msg("created list")
	return list, nil
}

const selectListColumns = `
SELECT id,
       name,
       owner_id,
       created_at
FROM lists
`

func (s *listServiceImpl) GetListByID(ctx context.Context, listID int64) (*models.List, error) {
	list, err := scanList(s.pgPool.QueryRow(ctx, selectListColumns+`WHERE id = $1`, listID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Int64("list_id", listID).
				Msg("list not found")
			return nil, ErrListNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("list_id", listID).
			Msg("failed to select list by id")
		return nil, err
	}
	s.logger.Debug().
		Int64("list_id", list.ID).
		Msg("selected list by id")
	return list, nil
}

func (s *listServiceImpl) GetListByName(ctx context.Context, name string) (*models.List, error) {
	list, err := scanList(s.pgPool.QueryRow(ctx, selectListColumns+`WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Str("name", name).
				Msg("list not found")
			return nil, ErrListNotFound
		}

		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to select list by name")
		return nil, err
	}
	s.logger.Debug().
		Int64("list_id", list.ID).
		Msg("selected list by name")
	return list, nil
}

func (s *listServiceImpl) GetListsByOwnerID(ctx context.Context, ownerID int64) ([]*models.List, error) {
	rows, err := s.pgPool.Query(
		ctx,
		selectListColumns+`WHERE owner_id = $1 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select lists by owner id")
		return nil, err
	}
	defer rows.Close()

	var lists []*models.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan list")
			return nil, err
		}
		lists = append(lists, list)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(lists)).
		Int64("owner_id", ownerID).
		Msg("selected lists by owner id")
	return lists, nil
}

func (s *listServiceImpl) DeleteList(ctx context.Context, listID int64) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const deleteTasksQuery = `
DELETE FROM tasks
WHERE list_id = $1
`
	tag, err := tx.Exec(ctx, deleteTasksQuery, listID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("list_id", listID).
			Msg("failed to delete tasks by list id")
		return err
	}
	s.logger.Debug().
		Int64("list_id", listID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted tasks by list id")

	const deleteListQuery = `
DELETE FROM lists
WHERE id = $1
`
	tag, err = tx.Exec(ctx, deleteListQuery, listID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("list_id", listID).
			Msg("failed to delete list")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Int64("list_id", listID).
			Msg("list not found")
		return ErrListNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Int64("list_id", listID).
		Msg("deleted list")
	return nil
}

func scanList(row pgx.Row) (*models.List, error) {
	list := new(models.List)
	err := row.Scan(
		&list.ID,
		&list.Name,
		&list.OwnerID,
		&list.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return list, nil
}

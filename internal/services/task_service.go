package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lists/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	_, err := s.GetTaskByTextInList(ctx, params.Text, params.ListID)
	if err == nil {
		s.logger.Error().
			Str("task", params.Text).
			Int64("list_id", params.ListID).
			Msg("task already exists in list")
		return nil, ErrTaskAlreadyExists
	} else if !errors.Is(err, ErrTaskNotFound) {
		return nil, err
	}

	task := &models.Task{
		Text:    params.Text,
		Due:     params.Due,
		ListID:  params.ListID,
		OwnerID: params.OwnerID,
	}

	const insertTaskQuery = `
INSERT INTO tasks (task,
                   due,
                   list_id,
                   owner_id)
VALUES ($1, $2, $3, $4)
RETURNING id, done
`
	err = s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.Text,
		task.Due,
		task.ListID,
		task.OwnerID,
	).Scan(
		&task.ID,
		&task.Done,
	)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Error().
				Str("task", task.Text).
				Int64("list_id", task.ListID).
				Msg("task already exists in list")
			return nil, ErrTaskAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("list_id", task.ListID).
		Msg("created task")
	return task, nil
}

const selectTaskColumns = `
SELECT id,
       task,
       done,
       due,
       list_id,
       owner_id
FROM tasks
`

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, taskID int64) (*models.Task, error) {
	task, err := scanTask(s.pgPool.QueryRow(ctx, selectTaskColumns+`WHERE id = $1`, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select task by id")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("selected task by id")
	return task, nil
}

func (s *taskServiceImpl) GetTaskByTextInList(ctx context.Context, text string, listID int64) (*models.Task, error) {
	task, err := scanTask(s.pgPool.QueryRow(
		ctx,
		selectTaskColumns+`WHERE task = $1 AND list_id = $2`,
		text,
		listID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("list_id", listID).
			Msg("failed to select task by text")
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) GetTasksByListID(ctx context.Context, listID int64) ([]*models.Task, error) {
	rows, err := s.pgPool.Query(
		ctx,
		selectTaskColumns+`WHERE list_id = $1 ORDER BY due ASC NULLS LAST, id`,
		listID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by list id")
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("list_id", listID).
		Msg("selected tasks by list id")
	return tasks, nil
}

func (s *taskServiceImpl) ToggleTaskDone(ctx context.Context, taskID int64) (*models.Task, error) {
	const toggleTaskDoneQuery = `
UPDATE tasks
SET done = NOT done
WHERE id = $1
RETURNING id, task, done, due, list_id, owner_id
`
	task, err := scanTask(s.pgPool.QueryRow(ctx, toggleTaskDoneQuery, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to toggle task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Bool("done", task.Done).
		Msg("toggled task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID int64) (*models.Task, error) {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
RETURNING id, task, done, due, list_id, owner_id
`
	task, err := scanTask(s.pgPool.QueryRow(ctx, deleteTaskQuery, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("list_id", task.ListID).
		Msg("deleted task")
	return task, nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(
		&task.ID,
		&task.Text,
		&task.Done,
		&task.Due,
		&task.ListID,
		&task.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

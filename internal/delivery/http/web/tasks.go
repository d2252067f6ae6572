package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-lists/internal/models"
	"github.com/adanyl0v/go-todo-lists/internal/services"
)

func (h *handlerImpl) HandleListPage(c *gin.Context) {
	list, ok := h.ownedList(c)
	if !ok {
		return
	}
	h.renderList(c, list, taskForm{}, nil)
}

func (h *handlerImpl) HandleAddTask(c *gin.Context) {
	list, ok := h.ownedList(c)
	if !ok {
		return
	}

	var form taskForm
	if errs := bindForm(c, &form); errs != nil {
		h.renderList(c, list, form, errs)
		return
	}

	_, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		Text:    form.Task,
		Due:     form.DueDate(),
		OwnerID: list.OwnerID,
		ListID:  list.ID,
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskAlreadyExists) {
			flash(c, fmt.Sprintf("Task '%s' already exists in this list.", form.Task))
			h.renderList(c, list, form, nil)
			return
		}

		h.logger.Error().
			Err(err).
			Int64("list_id", list.ID).
			Msg("failed to create task")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.redirect(c, listPath(list.ID))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	deleted, err := h.tasks.DeleteTask(c, task.ID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			h.abort(c, newNotFoundError())
			return
		}

		h.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to delete task")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.redirect(c, listPath(deleted.ListID))
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	toggled, err := h.tasks.ToggleTaskDone(c, task.ID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			h.abort(c, newNotFoundError())
			return
		}

		h.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to toggle task")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.redirect(c, listPath(toggled.ListID))
}

func (h *handlerImpl) renderList(c *gin.Context, list *models.List, form taskForm, errs fieldErrors) {
	tasks, err := h.tasks.GetTasksByListID(c, list.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("list_id", list.ID).
			Msg("failed to get tasks")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	if errs == nil {
		errs = fieldErrors{}
	}
	h.render(c, http.StatusOK, "to_do_list.html", gin.H{
		"List":   list,
		"Tasks":  tasks,
		"Form":   form,
		"Errors": errs,
	})
}

// ownedTask is ownedList for the taskID parameter.
func (h *handlerImpl) ownedTask(c *gin.Context) (*models.Task, bool) {
	taskID, err := parseID(c.Param("taskID"))
	if err != nil {
		h.abort(c, newNotFoundError())
		return nil, false
	}

	task, err := h.tasks.GetTaskByID(c, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			h.abort(c, newNotFoundError())
			return nil, false
		}

		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to get task")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return nil, false
	}

	userID := currentPrincipal(c).ID()
	if task.OwnerID != userID {
		h.logger.Warn().
			Int64("task_id", task.ID).
			Int64("owner_id", task.OwnerID).
			Int64("user_id", userID).
			Msg("access to a task of another user")
		h.abort(c, newForbiddenError())
		return nil, false
	}
	return task, true
}

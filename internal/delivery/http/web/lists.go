package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-lists/internal/models"
	"github.com/adanyl0v/go-todo-lists/internal/services"
)

func (h *handlerImpl) HandleHome(c *gin.Context) {
	principal := currentPrincipal(c)
	if !principal.IsAuthenticated() {
		h.redirect(c, "/login")
		return
	}

	lists, err := h.lists.GetListsByOwnerID(c, principal.ID())
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get lists")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"Lists": lists})
}

func (h *handlerImpl) HandleNewListPage(c *gin.Context) {
	h.render(c, http.StatusOK, "add-list.html", gin.H{"Form": listForm{}})
}

func (h *handlerImpl) HandleNewList(c *gin.Context) {
	var form listForm
	if errs := bindForm(c, &form); errs != nil {
		h.render(c, http.StatusOK, "add-list.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	list, err := h.lists.CreateList(c, services.CreateListParams{
		Name:    form.Name,
		OwnerID: currentPrincipal(c).ID(),
	})
	if err != nil {
		if errors.Is(err, services.ErrListAlreadyExists) {
			flash(c, fmt.Sprintf("List '%s' already exists, please use different name.", form.Name))
			h.render(c, http.StatusOK, "add-list.html", gin.H{"Form": form})
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to create list")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.redirect(c, listPath(list.ID))
}

func (h *handlerImpl) HandleDeleteList(c *gin.Context) {
	list, ok := h.ownedList(c)
	if !ok {
		return
	}

	err := h.lists.DeleteList(c, list.ID)
	if err != nil {
		if errors.Is(err, services.ErrListNotFound) {
			h.abort(c, newNotFoundError())
			return
		}

		h.logger.Error().
			Err(err).
			Int64("list_id", list.ID).
			Msg("failed to delete list")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.redirect(c, "/")
}

// ownedList loads the list named by the listID parameter and checks that
// it belongs to the current user. It renders the error page itself and
// returns false when the request can't go on.
func (h *handlerImpl) ownedList(c *gin.Context) (*models.List, bool) {
	listID, err := parseID(c.Param("listID"))
	if err != nil {
		h.abort(c, newNotFoundError())
		return nil, false
	}

	list, err := h.lists.GetListByID(c, listID)
	if err != nil {
		if errors.Is(err, services.ErrListNotFound) {
			h.abort(c, newNotFoundError())
			return nil, false
		}

		h.logger.Error().
			Err(err).
			Int64("list_id", listID).
			Msg("failed to get list")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return nil, false
	}

	userID := currentPrincipal(c).ID()
	if list.OwnerID != userID {
		h.logger.Warn().
			Int64("list_id", list.ID).
			Int64("owner_id", list.OwnerID).
			Int64("user_id", userID).
			Msg("access to a list of another user")
		h.abort(c, newForbiddenError())
		return nil, false
	}
	return list, true
}

func parseID(param string) (int64, error) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, param)
	}
	return id, nil
}

func listPath(listID int64) string {
	return "/list/" + strconv.FormatInt(listID, 10)
}

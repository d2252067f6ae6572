package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidID        = errors.New("invalid id")
	errCSRFTokenInvalid = errors.New("invalid csrf token")
)

type pageError struct {
	Code    int
	Message string
}

func newPageError(code int, message string) pageError {
	return pageError{
		Code:    code,
		Message: message,
	}
}

func (e pageError) Error() string {
	return e.Message
}

func newStatusTextError(status int) pageError {
	return newPageError(status, http.StatusText(status))
}

func newNotFoundError() pageError {
	return newPageError(http.StatusNotFound,
		"The requested URL was not found on the server.")
}

func newForbiddenError() pageError {
	return newPageError(http.StatusForbidden,
		"You don't have the permission to access the requested resource.")
}

func newBadRequestError(message string) pageError {
	return newPageError(http.StatusBadRequest, message)
}

// abort renders the error page and stops the handler chain.
func (h *handlerImpl) abort(c *gin.Context, err pageError) {
	h.render(c, err.Code, "error.html", gin.H{
		"Code":    err.Code,
		"Status":  http.StatusText(err.Code),
		"Message": err.Message,
	})
	c.Abort()
}

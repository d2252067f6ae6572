package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-lists/internal/services"
)

const loginFailedMessage = "Login unsuccessful, please register or try again."

func (h *handlerImpl) HandleRegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Form": registerForm{}})
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var form registerForm
	if errs := bindForm(c, &form); errs != nil {
		h.logger.Debug().
			Interface("errors", errs).
			Msg("invalid register form")
		form.Password = ""
		h.render(c, http.StatusOK, "register.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Register(c, services.RegisterParams{
		Name:        form.Name,
		Email:       form.Email,
		Password:    form.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			h.logger.Info().
				Str("email", form.Email).
				Msg("register with taken email")
			flash(c, fmt.Sprintf("User %s already exists, please login.", form.Email))
			h.render(c, http.StatusOK, "login.html", gin.H{"Form": loginForm{}})
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.setSessionCookie(c, result.Token, result.TokenExpiresAt)
	h.logger.Info().
		Int64("user_id", result.User.UserID).
		Msg("register request")
	h.redirect(c, "/")
}

func (h *handlerImpl) HandleLoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Form": loginForm{}})
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var form loginForm
	if errs := bindForm(c, &form); errs != nil {
		h.logger.Debug().
			Interface("errors", errs).
			Msg("invalid login form")
		form.Password = ""
		h.render(c, http.StatusOK, "login.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:       form.Email,
		Password:    form.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			flash(c, loginFailedMessage)
			h.redirect(c, "/login")
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to login")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.setSessionCookie(c, result.Token, result.TokenExpiresAt)
	h.redirect(c, "/")
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	if sessionID := c.GetString(sessionIDCtxKey); sessionID != "" {
		err := h.auth.Logout(c, sessionID)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to logout")
			h.abort(c, newStatusTextError(http.StatusInternalServerError))
			return
		}
	}

	clearCookie(c, sessionCookie)
	h.redirect(c, "/")
}

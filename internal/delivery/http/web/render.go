package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	csrf "github.com/utrack/gin-csrf"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the pages rendered by the handlers.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// state returns the cookie session holding flashes and the CSRF salt,
// or nil outside the state middleware.
func state(c *gin.Context) sessions.Session {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return nil
	}
	return sessions.Default(c)
}

// flash queues a message for the next rendered page, whether it is
// rendered by this request or, after a redirect, by the next one.
func flash(c *gin.Context, message string) {
	if s := state(c); s != nil {
		s.AddFlash(message)
	}
}

func (h *handlerImpl) saveState(c *gin.Context) {
	s := state(c)
	if s == nil {
		return
	}
	err := s.Save()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to save state cookie")
	}
}

// redirect saves pending flashes and redirects with 303.
func (h *handlerImpl) redirect(c *gin.Context, location string) {
	h.saveState(c)
	c.Redirect(http.StatusSeeOther, location)
}

// render executes a page template with the fields every page uses.
func (h *handlerImpl) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = currentPrincipal(c)
	if c.GetBool(csrfReadyCtxKey) {
		data["CSRFToken"] = csrf.GetToken(c)
	}

	var flashes []string
	if s := state(c); s != nil {
		for _, value := range s.Flashes() {
			if message, ok := value.(string); ok {
				flashes = append(flashes, message)
			}
		}
		h.saveState(c)
	}
	data["Flashes"] = flashes

	if _, ok := data["Errors"]; !ok {
		data["Errors"] = fieldErrors{}
	}
	c.HTML(status, name, data)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", false, true)
}

package web

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	csrf "github.com/utrack/gin-csrf"

	"github.com/adanyl0v/go-todo-lists/internal/services"
)

type Handler interface {
	HandleStateMiddleware(c *gin.Context)
	HandleSessionMiddleware(c *gin.Context)
	HandleRequireAuthMiddleware(c *gin.Context)
	HandleCSRFMiddleware(c *gin.Context)
	HandleRateLimitMiddleware(c *gin.Context)

	HandleRegisterPage(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLoginPage(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleLogout(c *gin.Context)

	HandleHome(c *gin.Context)
	HandleNewListPage(c *gin.Context)
	HandleNewList(c *gin.Context)
	HandleListPage(c *gin.Context)
	HandleAddTask(c *gin.Context)
	HandleDeleteList(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)

	HandleHealth(c *gin.Context)
}

// Pinger reports whether the storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Env          string
	Version      string
	SecureCookie bool
	// CookieSecret signs the state cookie and the CSRF tokens.
	CookieSecret []byte
	// RateLimiter throttles login and register submissions. Nil disables it.
	RateLimiter *RateLimiter
}

type handlerImpl struct {
	logger  zerolog.Logger
	auth    services.AuthService
	lists   services.ListService
	tasks   services.TaskService
	pinger  Pinger
	options Options

	state gin.HandlerFunc
	csrf  gin.HandlerFunc
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	listService services.ListService,
	taskService services.TaskService,
	pinger Pinger,
	options Options,
) Handler {
	registerFormValidations()
	h := &handlerImpl{
		logger:  logger,
		auth:    authService,
		lists:   listService,
		tasks:   taskService,
		pinger:  pinger,
		options: options,
	}

	store := cookie.NewStore(options.CookieSecret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   stateCookieMaxAge,
		Secure:   options.SecureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.state = sessions.Sessions(stateCookie, store)
	h.csrf = csrf.Middleware(csrf.Options{
		Secret:    string(options.CookieSecret),
		ErrorFunc: h.handleCSRFError,
		TokenGetter: func(c *gin.Context) string {
			return c.PostForm(csrfFormField)
		},
	})
	return h
}

// RegisterRoutes mounts every page of the application on router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/healthz", h.HandleHealth)

	router = router.Group("/",
		h.HandleStateMiddleware,
		h.HandleCSRFMiddleware,
		h.HandleSessionMiddleware,
	)

	router.GET("/register", h.HandleRegisterPage)
	router.POST("/register", h.HandleRateLimitMiddleware, h.HandleRegister)
	router.GET("/login", h.HandleLoginPage)
	router.POST("/login", h.HandleRateLimitMiddleware, h.HandleLogin)
	router.GET("/logout", h.HandleLogout)
	router.GET("/", h.HandleHome)

	authRouter := router.Group("/", h.HandleRequireAuthMiddleware)
	authRouter.GET("/new-list", h.HandleNewListPage)
	authRouter.POST("/new-list", h.HandleNewList)
	authRouter.GET("/list/:listID", h.HandleListPage)
	authRouter.POST("/list/:listID", h.HandleAddTask)
	authRouter.GET("/delete/:listID", h.HandleDeleteList)
	authRouter.GET("/delete_task/:taskID", h.HandleDeleteTask)
	authRouter.GET("/task_completion/:taskID", h.HandleToggleTask)
}

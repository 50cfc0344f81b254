// Package httpapi exposes the EventHub API over HTTP using echo. Handlers
// depend on narrow service interfaces so tests can substitute fakes.
package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"eventhub/internal/logging"
)

// Services groups everything the router needs.
type Services struct {
	Auth       AuthService
	Users      ProfileService
	Events     EventsService
	Categories CategoriesService
	Locations  LocationsService
	Resolver   Resolver
}

type Server struct {
	echo        *echo.Echo
	addr        string
	log         logging.Logger
	authLimiter *RateLimiter
}

// NewServer builds the echo instance with all routes and middleware wired.
// authRate and authBurst throttle the credential endpoints per client IP.
func NewServer(addr string, svc Services, authRate rate.Limit, authBurst int, log logging.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				log.Info(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				log.Error(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	eventHandler := NewEventHandler(svc.Events)
	categoryHandler := NewCategoryHandler(svc.Categories)
	locationHandler := NewLocationHandler(svc.Locations)
	healthHandler := NewHealthHandler()

	required := RequireIdentity(svc.Resolver)
	optional := OptionalIdentity(svc.Resolver)
	limiter := NewRateLimiter(authRate, authBurst)
	authLimiter := limiter.Middleware()

	e.GET("/health", healthHandler.Handle)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", authHandler.Register, authLimiter)
	authGroup.POST("/login", authHandler.Login, authLimiter)
	authGroup.POST("/logout", authHandler.Logout, required)

	usersGroup := e.Group("/users", required)
	usersGroup.GET("/me", userHandler.Me)
	usersGroup.PUT("/me", userHandler.UpdateMe)
	usersGroup.PATCH("/me/password", userHandler.ChangePassword)

	eventsGroup := e.Group("/events")
	eventsGroup.GET("", eventHandler.List, optional)
	eventsGroup.GET("/with-status", eventHandler.ListWithStatus, required)
	eventsGroup.GET("/me/created", eventHandler.MyCreated, required)
	eventsGroup.GET("/me/liked", eventHandler.MyLiked, required)
	eventsGroup.GET("/me/registered", eventHandler.MyRegistered, required)
	eventsGroup.GET("/me/created/with-status", eventHandler.MyCreatedWithStatus, required)
	eventsGroup.GET("/me/liked/with-status", eventHandler.MyLikedWithStatus, required)
	eventsGroup.GET("/me/registered/with-status", eventHandler.MyRegisteredWithStatus, required)
	eventsGroup.GET("/stats/my", eventHandler.MyStats, required)
	eventsGroup.GET("/:id", eventHandler.Get)
	eventsGroup.GET("/:id/with-status", eventHandler.GetWithStatus, required)
	eventsGroup.POST("", eventHandler.Create, required)
	eventsGroup.PUT("/:id", eventHandler.Update, required)
	eventsGroup.DELETE("/:id", eventHandler.Delete, required)
	eventsGroup.POST("/:id/like", eventHandler.ToggleLike, required)
	eventsGroup.POST("/:id/register", eventHandler.Register, required)
	eventsGroup.DELETE("/:id/register", eventHandler.Unregister, required)
	eventsGroup.POST("/:id/image", eventHandler.CreateImageUpload, required)
	eventsGroup.GET("/:id/image", eventHandler.GetImage)

	categoriesGroup := e.Group("/categories")
	categoriesGroup.GET("", categoryHandler.List)
	categoriesGroup.POST("", categoryHandler.Create, required)

	locationsGroup := e.Group("/locations")
	locationsGroup.GET("", locationHandler.List)
	locationsGroup.GET("/:id", locationHandler.Get)
	locationsGroup.POST("", locationHandler.Create, required)

	return &Server{echo: e, addr: addr, log: log, authLimiter: limiter}
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info(context.Background(), "starting http server", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully and ends background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.authLimiter.Stop()
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "transcatalog/docs"
	"transcatalog/internal/handler"
	"transcatalog/internal/service"
)

func NewRouter(
	translationHandler *handler.TranslationHandler,
	authHandler *handler.AuthHandler,
	authService service.AuthService,
	loginLimiter *IPRateLimiter,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(RequestLoggerMiddleware())

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	authHandler.RegisterPublicRoutes(api, loginLimiter.Middleware())

	protected := api.Group("", JWTAuthMiddleware(authService))
	authHandler.RegisterProtectedRoutes(protected)
	translationHandler.RegisterRoutes(protected)

	return e
}

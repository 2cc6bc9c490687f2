package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pic-backend/internal/api/http/handlers"
	"github.com/spec-kit/pic-backend/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Forms          *handlers.FormsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/usuario/cadastrar", cfg.Users.Register)
	app.Post("/login", cfg.Users.Login)

	requireToken := cfg.AuthMiddleware.Handle
	app.Get("/perfil", requireToken, cfg.Users.Profile)
	app.Get("/usuario/formularios_respondidos", requireToken, cfg.Forms.AnsweredForms)
	app.Post("/formulario/responder", requireToken, cfg.Forms.Submit)
	app.Get("/formulario/respostas/all", requireToken, cfg.Forms.ListAnswers)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Chat           *handlers.ChatHandler
	Tickets        *handlers.TicketsHandler
	ITTickets      *handlers.ITTicketsHandler
	Knowledge      *handlers.KnowledgeHandler
	Admin          *handlers.AdminHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	app.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/me/points", cfg.Users.Points)
	api.Post("/me/password", cfg.Users.ChangePassword)

	api.Post("/chat", cfg.Chat.Send)
	api.Get("/chat/history", cfg.Chat.History)

	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	api.Get("/tickets/:id/comments", cfg.Tickets.ListComments)

	api.Get("/kb", cfg.Knowledge.List)
	api.Get("/kb/:id", cfg.Knowledge.Get)
	api.Post("/kb/:id/helpful", cfg.Knowledge.MarkHelpful)
	api.Post("/kb", auth.RequireAdmin(), cfg.Knowledge.Create)
	api.Put("/kb/:id", auth.RequireAdmin(), cfg.Knowledge.Update)

	it := api.Group("/it", auth.RequireStaff())
	it.Get("/tickets", cfg.ITTickets.ListTickets)
	it.Get("/tickets/:id", cfg.ITTickets.GetTicket)
	it.Patch("/tickets/:id/status", cfg.ITTickets.UpdateStatus)
	it.Post("/tickets/:id/assign", cfg.ITTickets.Assign)
	it.Post("/tickets/:id/self-assign", cfg.ITTickets.SelfAssign)
	it.Get("/tickets/:id/history", cfg.ITTickets.History)
	it.Get("/staff", cfg.Staff.ListStaff)

	api.Get("/leaderboard", cfg.Admin.Leaderboard)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/users", cfg.Staff.ListUsers)
	admin.Patch("/users/:id/role", cfg.Staff.SetRole)
}

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/go-todo/handlers"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *handlers.AuthHandler,
	todoHandler *handlers.TodoHandler,
	streamHandler *handlers.StreamHandler,
	sessionAuth fiber.Handler,
) {
	app.Get("/health", handlers.HandleHealthCheck)

	auth := app.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", sessionAuth, authHandler.Me)
	auth.Post("/change-password", sessionAuth, authHandler.ChangePassword)
	auth.Post("/logout", sessionAuth, authHandler.Logout)
	auth.Get("/sessions", sessionAuth, authHandler.Sessions)
	auth.Post("/sessions/logout-other", sessionAuth, authHandler.LogoutOther)

	todos := app.Group("/todos", sessionAuth)
	todos.Get("/", todoHandler.List)
	todos.Post("/", todoHandler.Create)
	// batch route first so it is not swallowed by /:id
	todos.Delete("/batch/completed", todoHandler.ClearCompleted)
	todos.Get("/:id", todoHandler.GetOne)
	todos.Put("/:id", todoHandler.Update)
	todos.Delete("/:id", todoHandler.Delete)

	app.Get("/stream", streamHandler.Stream)
}

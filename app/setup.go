package app

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/taskpulse/go-todo/auth"
	"github.com/taskpulse/go-todo/config"
	"github.com/taskpulse/go-todo/database"
	"github.com/taskpulse/go-todo/handlers"
	"github.com/taskpulse/go-todo/middleware"
	"github.com/taskpulse/go-todo/router"
	"github.com/taskpulse/go-todo/stream"
)

// SetupAndRunApp wires the service together and starts listening.
func SetupAndRunApp() error {
	err := config.LoadENV()
	if err != nil {
		return err
	}

	err = database.StartPostgreSQL()
	if err != nil {
		return err
	}
	defer database.ClosePostgreSQL()

	db := database.GetDB()

	users := auth.NewUserStore(db)
	guard := auth.NewLoginGuard(db)
	sessions := auth.NewSessionRegistry(db, config.JWTSecret())
	hub := stream.NewHub()

	// Optional MQTT mirror of todo events; the hub works fine without
	// a broker.
	if mqttURL := os.Getenv("MQTT_URL"); mqttURL != "" {
		bridge, err := stream.NewBridge(mqttURL)
		if err != nil {
			log.Printf("mqtt bridge disabled: %v", err)
		} else {
			hub.SetMirror(bridge.Mirror)
		}
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
	}))

	router.SetupRoutes(app,
		handlers.NewAuthHandler(users, guard, sessions),
		handlers.NewTodoHandler(db, hub),
		handlers.NewStreamHandler(db, sessions, hub),
		middleware.SessionAuth(sessions),
	)

	config.AddSwaggerRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	return app.Listen(":" + port)
}

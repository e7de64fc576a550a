package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"

	"github.com/fathima-sithara/chatroom-service/internal/core"
	"github.com/fathima-sithara/chatroom-service/internal/ws"
)

// NewServer wires the HTTP surface: health, the websocket upgrade and the
// roster endpoint.
func NewServer(hub *core.Hub, wsrv *ws.Server) *fiber.App {
	app := fiber.New()
	app.Use(logger.New())

	v1 := app.Group("/v1")

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	v1.Get("/ws", websocket.New(wsrv.Handle()))

	v1.Get("/roster", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "data": hub.Roster()})
	})

	return app
}

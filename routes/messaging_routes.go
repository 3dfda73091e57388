package routes

import (
	"github.com/findlessons/backend/handlers"
	"github.com/findlessons/backend/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	chats := api.Group("/chats", middleware.Protected())
	chats.Get("", handlers.GetMyChats)
	chats.Post("", handlers.StartChat)
	chats.Get("/:chatId/messages", handlers.GetChatMessages)
	chats.Post("/:chatId/messages", handlers.SendChatMessage)
	chats.Post("/:chatId/read", handlers.MarkChatRead)
	chats.Delete("/:chatId", handlers.DeleteChat)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws/:chatId", websocket.New(handlers.ServeWs))
}

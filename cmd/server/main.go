package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/fornetto/internal/config"
	"github.com/example/fornetto/internal/database"
	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/routes"
	"github.com/example/fornetto/internal/services"
	"github.com/example/fornetto/internal/ws"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "Fornetto Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	hub := ws.NewHub()
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	routes.Register(app, db, cfg, hub, telegram)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	importer := services.NewWebImportService(db, func(order models.Order) {
		hub.Broadcast("order_created", order)
		if err := telegram.NotifyNewOrder(order); err != nil {
			log.Printf("[WebImport] Telegram notification failed: %v", err)
		}
	})
	go importer.Run(ctx)
	go services.NewLateOrderWatcher(db, telegram, 0, 0).Run(ctx)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

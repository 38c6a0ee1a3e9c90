package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/config"
	"github.com/example/fornetto/internal/handlers"
	"github.com/example/fornetto/internal/middleware"
	"github.com/example/fornetto/internal/services"
	"github.com/example/fornetto/internal/ws"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, hub *ws.Hub, telegram *services.TelegramService) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, telegram, hub)
	productHandler := handlers.NewProductHandler(db)
	stockHandler := handlers.NewStockHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	motoboyHandler := handlers.NewMotoboyHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db)
	financeHandler := handlers.NewFinanceHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Website order intake, secured by API key
	intake := api.Group("/intake", middleware.APIKeyMiddleware(cfg.IntakeAPIKey))
	intake.Post("/orders", orderHandler.IntakeOrder)

	// Live order feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/orders", websocket.New(hub.Handler()))

	// Everything below requires an operator token
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)

	orders := protected.Group("/orders")
	orders.Get("/", orderHandler.ListOrders)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id", orderHandler.UpdateOrder)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)
	orders.Patch("/:id/payment", orderHandler.UpdatePayment)
	orders.Patch("/:id/motoboy", orderHandler.AssignMotoboy)
	orders.Delete("/:id", orderHandler.DeleteOrder)

	products := protected.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Patch("/:id/manual-out-of-stock", productHandler.SetManualOutOfStock)
	products.Delete("/:id", productHandler.DeleteProduct)

	stock := protected.Group("/stock")
	stock.Get("/", stockHandler.ListStock)
	stock.Get("/map", stockHandler.GetStockMap)
	stock.Post("/import", stockHandler.ImportStock)
	stock.Put("/:key", stockHandler.UpsertStock)
	stock.Delete("/:key", stockHandler.DeleteStock)

	customers := protected.Group("/customers")
	customers.Get("/", customerHandler.ListCustomers)
	customers.Post("/", customerHandler.CreateCustomer)
	customers.Get("/:id", customerHandler.GetCustomer)
	customers.Put("/:id", customerHandler.UpdateCustomer)
	customers.Delete("/:id", customerHandler.DeleteCustomer)
	customers.Post("/:id/addresses", customerHandler.AddAddress)
	customers.Delete("/:id/addresses/:addressId", customerHandler.DeleteAddress)

	motoboys := protected.Group("/motoboys")
	motoboys.Get("/", motoboyHandler.ListMotoboys)
	motoboys.Post("/", motoboyHandler.CreateMotoboy)
	motoboys.Get("/:id", motoboyHandler.GetMotoboy)
	motoboys.Put("/:id", motoboyHandler.UpdateMotoboy)
	motoboys.Post("/:id/qr", motoboyHandler.RegenerateQR)
	motoboys.Post("/:id/tips", motoboyHandler.AddTip)
	motoboys.Delete("/:id", motoboyHandler.DeleteMotoboy)

	protected.Get("/dashboard", dashboardHandler.GetStats)

	protected.Get("/delivery/quote", settingsHandler.QuoteDelivery)

	settings := protected.Group("/settings")
	settings.Get("/delivery", settingsHandler.GetDeliverySettings)
	settings.Put("/delivery", middleware.RequireAdmin(), settingsHandler.UpdateDeliverySettings)
	settings.Get("/print", settingsHandler.GetPrintSettings)
	settings.Put("/print", settingsHandler.UpdatePrintSettings)
	settings.Get("/web-integration", middleware.RequireAdmin(), settingsHandler.GetWebIntegrationSettings)
	settings.Put("/web-integration", middleware.RequireAdmin(), settingsHandler.UpdateWebIntegrationSettings)

	cash := protected.Group("/cash-sessions")
	cash.Get("/", financeHandler.ListCashSessions)
	cash.Get("/current", financeHandler.GetCurrentCashSession)
	cash.Post("/", financeHandler.OpenCashSession)
	cash.Patch("/:id/close", financeHandler.CloseCashSession)
}

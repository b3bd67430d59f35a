package route

import (
	"github.com/gofiber/fiber/v2"

	"negotiation-service/src/internal/delivery/http"
	"negotiation-service/src/internal/delivery/http/middleware"
	"negotiation-service/src/internal/delivery/ws"
	"negotiation-service/src/internal/entity"
)

type RouteConfig struct {
	App                 *fiber.App
	PassengerController *http.PassengerController
	DriverController    *http.DriverController
	WsGateway           *ws.Gateway
	AuthMiddleware      fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})

	c.WsGateway.Register(c.App)
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)

	passenger := middleware.RequireRole(string(entity.RolePassenger))
	driver := middleware.RequireRole(string(entity.RoleDriver))

	c.App.Post("/rides/v1/requests", passenger, c.PassengerController.CreateRideRequest)
	c.App.Post("/rides/v1/cancel", passenger, c.PassengerController.CancelRide)
	c.App.Post("/rides/v1/passenger/accept", passenger, c.PassengerController.AcceptOffer)
	c.App.Post("/negotiations/v1/passenger/offers", passenger, c.PassengerController.SendPriceOffer)
	c.App.Post("/negotiations/v1/conversations", c.PassengerController.OpenSupportConversation)
	c.App.Post("/negotiations/v1/conversations/resolve", passenger, c.PassengerController.ResolveConversation)
	c.App.Post("/negotiations/v1/conversations/reopen", passenger, c.PassengerController.ReopenConversation)

	c.App.Post("/negotiations/v1/driver/offers", driver, c.DriverController.SendPriceOffer)
	c.App.Post("/rides/v1/driver/accept", driver, c.DriverController.AcceptOffer)
	c.App.Post("/rides/v1/start", driver, c.DriverController.StartRide)
	c.App.Post("/rides/v1/complete", driver, c.DriverController.CompleteRide)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"negotiation-service/src/internal/delivery/http/middleware"
	"negotiation-service/src/internal/entity"
	"negotiation-service/src/internal/model"
	"negotiation-service/src/internal/usecase"
	"negotiation-service/src/pkg/log"
	"negotiation-service/src/pkg/utils"
)

type DriverController struct {
	Log         log.Log
	Negotiation *usecase.NegotiationUsecase
	Ride        *usecase.RideUsecase
}

func NewDriverController(negotiation *usecase.NegotiationUsecase, ride *usecase.RideUsecase, logger log.Log) *DriverController {
	return &DriverController{
		Log:         logger,
		Negotiation: negotiation,
		Ride:        ride,
	}
}

func (c *DriverController) SendPriceOffer(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.SendPriceOfferRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.SendPriceOffer", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.SenderID = auth.Metadata.UserID
	request.SenderRole = string(entity.RoleDriver)

	result := c.Negotiation.SendPriceOffer(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Price offer sent", fiber.StatusCreated, ctx)
}

func (c *DriverController) AcceptOffer(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.ConnectRideRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.AcceptOffer", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.InitiatorID = auth.Metadata.UserID
	request.InitiatorRole = string(entity.RoleDriver)

	result := c.Ride.ConnectRide(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride connected", fiber.StatusCreated, ctx)
}

func (c *DriverController) StartRide(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.StartRideRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.StartRide", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.DriverID = auth.Metadata.UserID

	result := c.Ride.StartRide(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride started", fiber.StatusOK, ctx)
}

func (c *DriverController) CompleteRide(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CompleteRideRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.CompleteRide", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.DriverID = auth.Metadata.UserID

	result := c.Ride.CompleteRide(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride completed", fiber.StatusOK, ctx)
}

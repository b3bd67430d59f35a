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

type PassengerController struct {
	Log         log.Log
	Negotiation *usecase.NegotiationUsecase
	Ride        *usecase.RideUsecase
}

func NewPassengerController(negotiation *usecase.NegotiationUsecase, ride *usecase.RideUsecase, logger log.Log) *PassengerController {
	return &PassengerController{
		Log:         logger,
		Negotiation: negotiation,
		Ride:        ride,
	}
}

func (c *PassengerController) CreateRideRequest(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CreateRideRequestRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PassengerController.CreateRideRequest", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.PassengerID = auth.Metadata.UserID

	result := c.Negotiation.CreateRideRequest(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride request created", fiber.StatusCreated, ctx)
}

func (c *PassengerController) SendPriceOffer(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.SendPriceOfferRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PassengerController.SendPriceOffer", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.SenderID = auth.Metadata.UserID
	request.SenderRole = string(entity.RolePassenger)

	result := c.Negotiation.SendPriceOffer(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Price offer sent", fiber.StatusCreated, ctx)
}

func (c *PassengerController) AcceptOffer(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.ConnectRideRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PassengerController.AcceptOffer", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.InitiatorID = auth.Metadata.UserID
	request.InitiatorRole = string(entity.RolePassenger)

	result := c.Ride.ConnectRide(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride connected", fiber.StatusCreated, ctx)
}

func (c *PassengerController) OpenSupportConversation(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.OpenSupportConversationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PassengerController.OpenSupportConversation", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.Metadata.UserID
	request.SenderRole = auth.Metadata.Role

	result := c.Negotiation.OpenSupportConversation(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Conversation opened", fiber.StatusCreated, ctx)
}

func (c *PassengerController) ResolveConversation(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.ResolveConversationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PassengerController.ResolveConversation", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.PassengerID = auth.Metadata.UserID

	result := c.Negotiation.ResolveConversation(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Conversation resolved", fiber.StatusOK, ctx)
}

func (c *PassengerController) ReopenConversation(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.ReopenConversationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PassengerController.ReopenConversation", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.PassengerID = auth.Metadata.UserID

	result := c.Negotiation.ReopenConversation(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Conversation reopened", fiber.StatusOK, ctx)
}

func (c *PassengerController) CancelRide(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CancelRideRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PassengerController.CancelRide", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.PassengerID = auth.Metadata.UserID

	result := c.Ride.CancelRide(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride cancelled", fiber.StatusOK, ctx)
}

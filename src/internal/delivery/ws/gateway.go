package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"negotiation-service/src/internal/delivery/http/middleware"
	"negotiation-service/src/internal/model"
	"negotiation-service/src/internal/usecase"
	"negotiation-service/src/pkg/log"
	"negotiation-service/src/pkg/token"
	pkgws "negotiation-service/src/pkg/ws"
)

const claimContextKey = "ws.claim"

// Gateway upgrades /ws/chat, registers the connection in the presence hub
// and dispatches inbound events to the negotiation usecase.
type Gateway struct {
	Log         log.Log
	Hub         *pkgws.Hub
	Verifier    *token.Verifier
	Negotiation *usecase.NegotiationUsecase
}

func NewGateway(logger log.Log, hub *pkgws.Hub, verifier *token.Verifier, negotiation *usecase.NegotiationUsecase) *Gateway {
	return &Gateway{
		Log:         logger,
		Hub:         hub,
		Verifier:    verifier,
		Negotiation: negotiation,
	}
}

func (g *Gateway) Register(app *fiber.App) {
	app.Use("/ws/chat", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		raw := middleware.TokenFromRequest(ctx)
		claim, err := g.Verifier.Verify(raw)
		if err != nil {
			g.Log.Warn("ws-gateway", fmt.Sprintf("handshake rejected: %v", err), "Register", ctx.IP())
			return fiber.ErrUnauthorized
		}
		ctx.Locals(claimContextKey, claim)
		return ctx.Next()
	})
	app.Get("/ws/chat", websocket.New(g.handle))
}

func (g *Gateway) handle(conn *websocket.Conn) {
	claim, ok := conn.Locals(claimContextKey).(*token.Claim)
	if !ok {
		_ = conn.Close()
		return
	}

	userID := claim.Metadata.UserID
	connID := uuid.NewString()
	g.Hub.Register(userID, connID, conn)
	defer g.Hub.Unregister(connID)

	g.Log.Info("ws-gateway", "connection registered", "handle", userID)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			g.Log.Info("ws-gateway", fmt.Sprintf("connection closed: %v", err), "handle", userID)
			return
		}
		g.dispatch(context.Background(), claim, raw)
	}
}

// dispatch routes one inbound frame. Rejections go back to the sender only,
// never to the counterpart.
func (g *Gateway) dispatch(ctx context.Context, claim *token.Claim, raw []byte) {
	userID := claim.Metadata.UserID

	var envelope model.InboundEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		g.sendError(userID, "malformed event")
		return
	}

	switch envelope.Event {
	case model.InboundSendOtherMessage:
		request := new(model.SendOtherMessageRequest)
		if err := json.Unmarshal(envelope.Data, request); err != nil {
			g.sendError(userID, "malformed sendOtherMessage payload")
			return
		}
		request.SenderID = userID
		request.SenderRole = claim.Metadata.Role
		request.SenderImage = claim.Metadata.Image
		request.SenderFullname = claim.Metadata.FullName

		result := g.Negotiation.SendOtherMessage(ctx, request)
		if result.Error != nil {
			g.sendError(userID, result.Error.Error())
		}

	default:
		g.sendError(userID, fmt.Sprintf("unknown event %q", envelope.Event))
	}
}

func (g *Gateway) sendError(userID, reason string) {
	g.Hub.Send(userID, model.EventErrorSendingMessage, map[string]string{"message": reason})
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	httpError "negotiation-service/src/pkg/http-error"
	"negotiation-service/src/pkg/token"
	"negotiation-service/src/pkg/utils"
)

const userContextKey = "auth.claim"

// TokenFromRequest reads the bearer token from the `token` query parameter
// or the Authorization header.
func TokenFromRequest(ctx *fiber.Ctx) string {
	if q := ctx.Query("token"); q != "" {
		return q
	}
	auth := ctx.Get(fiber.HeaderAuthorization)
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func VerifyBearer(v *viper.Viper) fiber.Handler {
	verifier := token.NewVerifier(v)
	return func(ctx *fiber.Ctx) error {
		raw := TokenFromRequest(ctx)
		if raw == "" {
			return utils.ResponseError(httpError.NewUnauthorized(), ctx)
		}
		claim, err := verifier.Verify(raw)
		if err != nil {
			return utils.ResponseError(httpError.NewUnauthorized(), ctx)
		}
		ctx.Locals(userContextKey, claim)
		return ctx.Next()
	}
}

// GetUser returns the verified claim stored by VerifyBearer.
func GetUser(ctx *fiber.Ctx) *token.Claim {
	claim, _ := ctx.Locals(userContextKey).(*token.Claim)
	return claim
}

// RequireRole rejects callers whose token role is not in the allowed set.
func RequireRole(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claim := GetUser(ctx)
		if claim == nil {
			return utils.ResponseError(httpError.NewUnauthorized(), ctx)
		}
		for _, role := range roles {
			if claim.Metadata.Role == role {
				return ctx.Next()
			}
		}
		return utils.ResponseError(httpError.NewForbidden(), ctx)
	}
}

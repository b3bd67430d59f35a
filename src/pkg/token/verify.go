package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// Verifier checks bearer tokens issued by the external auth service. The
// core never issues tokens; its only contract is verify -> {userId, role}.
type Verifier struct {
	secret []byte
}

func NewVerifier(v *viper.Viper) *Verifier {
	return &Verifier{secret: []byte(v.GetString("jwt.access_secret"))}
}

func (v *Verifier) Verify(tokenString string) (*Claim, error) {
	claim := &Claim{}
	parsed, err := jwt.ParseWithClaims(tokenString, claim, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claim.Metadata.UserID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claim, nil
}

package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the identity provider puts in its tokens: a stable user id
// plus the display name at issue time.
type Claims struct {
	UID  string `json:"uid"`
	Nick string `json:"nick"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("invalid token")

// Validator checks HS256 tokens issued by the identity provider.
type Validator struct {
	secret []byte
}

func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// Validate parses and verifies a token, returning its claims. Any failure —
// bad signature, wrong method, expired, missing uid — rejects the token.
func (v *Validator) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UID == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestValidateAcceptsGoodToken(t *testing.T) {
	v := NewValidator("secret")
	token := sign(t, "secret", Claims{UID: "u1", Nick: "Alice"})

	claims, err := v.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UID != "u1" || claims.Nick != "Alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	v := NewValidator("secret")

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": sign(t, "other", Claims{UID: "u1"}),
		"missing uid":  sign(t, "secret", Claims{Nick: "NoID"}),
		"expired": sign(t, "secret", Claims{
			UID: "u1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}),
	}
	for name, token := range cases {
		if _, err := v.Validate(token); err == nil {
			t.Errorf("%s: Validate accepted a bad token", name)
		}
	}
}

func TestDirectoryRecordsAndResolves(t *testing.T) {
	d := NewDirectory()
	if _, ok := d.Nickname("u1"); ok {
		t.Error("empty directory resolved a name")
	}
	d.Record("u1", "Alice")
	d.Record("u1", "Alicia") // latest name wins
	nick, ok := d.Nickname("u1")
	if !ok || nick != "Alicia" {
		t.Errorf("Nickname(u1) = %q, %v", nick, ok)
	}
}

package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signClaims(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return token
}

func TestValidateTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	claims, err := ValidateToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("ValidateToken() UserID = %d, want 42", claims.UserID)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"

	wrongAudience := valid
	wrongAudience.Audience = jwt.ClaimStrings{"other-api"}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-valid-token"},
		{name: "wrong secret", token: signClaims(t, Claims{RegisteredClaims: valid, UserID: 1}, "other-secret")},
		{name: "wrong issuer", token: signClaims(t, Claims{RegisteredClaims: wrongIssuer, UserID: 1}, "test-secret")},
		{name: "wrong audience", token: signClaims(t, Claims{RegisteredClaims: wrongAudience, UserID: 1}, "test-secret")},
		{name: "expired", token: signClaims(t, Claims{RegisteredClaims: expired, UserID: 1}, "test-secret")},
		{name: "no expiry", token: signClaims(t, Claims{RegisteredClaims: noExpiry, UserID: 1}, "test-secret")},
		{name: "missing user", token: signClaims(t, Claims{RegisteredClaims: valid}, "test-secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, "test-secret")
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

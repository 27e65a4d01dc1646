package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mmynk/wesplit/internal/models"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u1" || claims.User().Name != "Alice" {
		t.Errorf("Unexpected claims: %+v", claims)
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{"garbage", func() string { return "not-a-token" }},
		{"wrong secret", func() string {
			tok, _ := NewJWTManager("other-secret", time.Hour).Generate(models.User{ID: "u1"})
			return tok
		}},
		{"expired", func() string {
			tok, _ := NewJWTManager("test-secret", -time.Minute).Generate(models.User{ID: "u1"})
			return tok
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token()); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}

	if _, err := m.Generate(models.User{}); err == nil {
		t.Error("Generate without user id should fail")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"", "", ErrMissingToken},
		{"Basic abc", "", ErrInvalidToken},
		{"Bearer", "", ErrInvalidToken},
	}
	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tt.header, got, err, tt.want, tt.wantErr)
		}
	}
}

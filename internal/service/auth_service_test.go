package service

import (
	"context"
	"errors"
	"testing"

	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"
)

func TestAuthServiceLoginAndParse(t *testing.T) {
	db := setupPizzaDB(t, "auth_service")
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1}}
	svc := NewAuthService(cfg, repository.NewAdminRepository(db))

	hash, err := svc.HashPassword("segredo123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	admin := models.Admin{Username: "entrega", PasswordHash: hash, Perfil: constants.ProfileDelivery}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	if _, _, _, err := svc.Login(context.Background(), "entrega", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "ninguem", "segredo123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}

	logged, token, _, err := svc.Login(context.Background(), " entrega ", "segredo123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("last login should be set")
	}
	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Perfil != constants.ProfileDelivery {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	state, err := svc.ResolveAuthState(context.Background(), admin.ID)
	if err != nil || state.Perfil != constants.ProfileDelivery {
		t.Fatalf("resolve auth state failed: %+v %v", state, err)
	}

	other := NewAuthService(&config.Config{JWT: config.JWTConfig{SecretKey: "other"}}, nil)
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestCaptchaServiceDisabledPasses(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{})
	if err := svc.Verify(CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled captcha should pass, got %v", err)
	}

	enabled := NewCaptchaService(config.CaptchaConfig{Enabled: true})
	if err := enabled.Verify(CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected captcha required, got %v", err)
	}
	challenge, err := enabled.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate captcha failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}
	if err := enabled.Verify(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "wrong!"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected captcha invalid, got %v", err)
	}
}

func TestAuthServiceRevokeSessions(t *testing.T) {
	db := setupPizzaDB(t, "auth_revoke")
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1}}
	svc := NewAuthService(cfg, repository.NewAdminRepository(db))

	hash, _ := svc.HashPassword("segredo123")
	admin := models.Admin{Username: "caixa", PasswordHash: hash, Perfil: constants.ProfileFinancial}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	_, token, _, err := svc.Login(context.Background(), "caixa", "segredo123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, _ := svc.ParseJWT(token)

	if err := svc.RevokeSessions(context.Background(), admin.ID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	state, err := svc.ResolveAuthState(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("resolve state failed: %v", err)
	}
	if state.TokenVersion != claims.TokenVersion+1 {
		t.Fatalf("token version should be bumped: claims=%d state=%d", claims.TokenVersion, state.TokenVersion)
	}
}

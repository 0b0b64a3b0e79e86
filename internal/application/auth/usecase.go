package auth

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase modo administrador: una contraseña compartida (hash bcrypt) que emite un JWT.
type AuthUseCase struct {
	passwordHash []byte
	jwtCfg       JWTConfig
	now          func() time.Time
}

// NewAuthUseCase usa passwordHash si viene; si no, hashea password. Sin ninguno, el login queda deshabilitado.
func NewAuthUseCase(passwordHash, password string, jwtCfg JWTConfig) (*AuthUseCase, error) {
	uc := &AuthUseCase{jwtCfg: jwtCfg, now: time.Now}
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, errors.New("ADMIN_PASSWORD_HASH no es un hash bcrypt válido")
		}
		uc.passwordHash = []byte(passwordHash)
	case password != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		uc.passwordHash = hash
	}
	return uc, nil
}

// Enabled indica si hay contraseña de administrador configurada.
func (uc *AuthUseCase) Enabled() bool {
	return len(uc.passwordHash) > 0 && uc.jwtCfg.Secret != ""
}

// Login verifica la contraseña y genera el token de administrador.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if !uc.Enabled() {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	expiresAt := uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute)
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.RoleAdmin, jwt.RoleAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

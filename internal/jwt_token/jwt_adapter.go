package jwttoken

import (
	"visadesk/internal/platform/middleware"
)

// ToMiddlewareClaims narrows token claims to what the auth middleware needs.
func ToMiddlewareClaims(claims *AgentClaims) *middleware.AgentClaims {
	return &middleware.AgentClaims{
		Agent: claims.Agent,
		JTI:   claims.ID,
	}
}

type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.AgentClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}

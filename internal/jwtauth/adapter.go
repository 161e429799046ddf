package jwtauth

import (
	"docseva/internal/platform/middleware"
)

// Adapter bridges JWTService to the middleware's TokenValidator interface.
type Adapter struct {
	service *JWTService
}

func NewAdapter(service *JWTService) *Adapter {
	return &Adapter{service: service}
}

func (a *Adapter) ValidateToken(tokenString string) (*middleware.AuthClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.AuthClaims{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}

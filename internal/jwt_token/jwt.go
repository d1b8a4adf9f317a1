package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "visadesk/pkg/domain-errors"
)

// AgentClaims identifies the migration agent acting on the desk.
type AgentClaims struct {
	Agent string `json:"agent"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 agent tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		now:        time.Now,
	}
}

// IssueAgentToken signs a token naming agent, valid for expiresIn.
func (s *JWTService) IssueAgentToken(agent string, expiresIn time.Duration) (string, error) {
	if agent == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "agent is required")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AgentClaims{
		Agent: agent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   agent,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*AgentClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AgentClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*AgentClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Agent == "" {
		claims.Agent = claims.Subject
	}
	if claims.Agent == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token names no agent")
	}
	return claims, nil
}

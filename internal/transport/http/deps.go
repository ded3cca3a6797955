package http

import (
	"github.com/consultly/verification-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/consultly/verification-api/internal/infrastructure/jwt"
	"github.com/consultly/verification-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	VerificationRepo *dynamo.VerificationRepo
	UserRepo         *dynamo.UserRepo
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
}

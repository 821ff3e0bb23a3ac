package auth

import (
	"errors"
	"fmt"

	"github.com/noah-isme/school-portal-api/internal/models"
)

var (
	// ErrUnauthenticated indicates a missing or unverifiable token.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates a verified caller whose role may not access the resource.
	ErrForbidden = errors.New("insufficient permissions")
)

// Gate verifies bearer tokens and restricts access by role.
type Gate struct {
	verifier TokenVerifier
}

// NewGate builds a gate over the given verifier.
func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authorize verifies the token and checks the caller's role against allowed.
// An empty allowed list admits any authenticated role.
func (g *Gate) Authorize(token string, allowed ...models.Role) (UserContext, error) {
	if token == "" {
		return UserContext{}, ErrUnauthenticated
	}

	user, err := g.verifier.Verify(token)
	if err != nil {
		return UserContext{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if len(allowed) == 0 {
		return user, nil
	}
	for _, role := range allowed {
		if user.Role == role {
			return user, nil
		}
	}

	return UserContext{}, ErrForbidden
}

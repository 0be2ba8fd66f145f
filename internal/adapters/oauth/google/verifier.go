package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/wishpool/internal/core/ports"
	"google.golang.org/api/idtoken"
)

type GoogleVerifier struct{}

func NewVerifier() ports.TokenVerifier {
	return &GoogleVerifier{}
}

// Verify validates a Google ID token. The email must be verified by Google,
// since it becomes the viewer identity recorded on wishes and votes.
func (v *GoogleVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	payload, err := idtoken.Validate(ctx, token, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate id token: %w", err)
	}
	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return nil, errors.New("email not found in claims")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("email is not verified")
	}
	name, _ := payload.Claims["name"].(string)
	return &ports.TokenPayload{Email: email, Name: name}, nil
}

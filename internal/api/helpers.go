package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return user.ID, nil
}

// extractIP returns the client IP from proxy headers. X-Forwarded-For may
// carry a chain; the first entry is the client.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		for i := 0; i < len(xForwardedFor); i++ {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}
	return xRealIP
}

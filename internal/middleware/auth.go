package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/moodwell/backend/internal/apierror"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/pkg/supabase"
)

// TokenVerifier resolves a bearer token to a user. *supabase.Client implements it.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*supabase.User, error)
}

// bearerToken extracts the token from an Authorization header. The scheme is case
// insensitive (RFC 9110 section 11.1).
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Auth requires a Supabase access token and stores the caller's id under "user_id" in
// the gin context and in the logging context of the request.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Ctx(ctx).Debug("unauthenticated request", logger.Bool("has_header", c.GetHeader("Authorization") != ""))
			apierror.AbortWithProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
			return
		}

		user, err := verifier.VerifyToken(ctx, token)
		if err != nil {
			logger.Ctx(ctx).Warn("token verification failed", logger.Err(err))
			apierror.AbortWithProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
			return
		}

		c.Set("user_id", user.ID)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, user.ID))
		c.Next()
	}
}

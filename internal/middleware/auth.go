package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

// UserKey holds the authenticated user in a gin or gRPC context.
const UserKey ctxKey = "user"

// TokenVerifier resolves a bearer token to a user. Its errors are
// caller-facing.
type TokenVerifier interface {
	VerifyToken(raw string) (string, error)
}

func bearer(header string) string {
	tok, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(tok)
}

// RequireToken rejects requests without a valid bearer token.
func RequireToken(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := v.VerifyToken(bearer(c.GetHeader("Authorization")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
			return
		}
		c.Set(string(UserKey), user)
		c.Next()
	}
}

// Auth is the unary interceptor equivalent of RequireToken. Methods in
// open skip the check.
func Auth(v TokenVerifier, open map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		raw := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			// token from authorization: Bearer <jwt>
			if vals := md.Get("authorization"); len(vals) > 0 {
				raw = bearer(vals[0])
			}
		}

		user, err := v.VerifyToken(raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return next(context.WithValue(ctx, UserKey, user), req)
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/utils"
)

const (
	// ContextClaimsKey stores the verified admin claims inside Gin context.
	ContextClaimsKey = "claims"
	// ContextUsernameKey stores the admin username inside Gin context.
	ContextUsernameKey = "username"

	loginRoute = "/admin/login"
)

type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, id string) bool
}

// SessionChecker reports whether the admin session flag is stored.
type SessionChecker interface {
	CheckSession(ctx context.Context) error
}

// AdminRequired ensures the request carries a valid admin token and that the
// admin session is still stored. Failures point the client at the login route.
func AdminRequired(tokens TokenParser, revoked RevocationChecker, sessions SessionChecker) gin.HandlerFunc {
	redirect := gin.H{"redirect": loginRoute}
	deny := func(ctx *gin.Context, code int) {
		utils.AbortKey(ctx, http.StatusUnauthorized, code, models.MsgLoginRequired, redirect)
	}

	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			deny(ctx, 40101)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			deny(ctx, 40102)
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			deny(ctx, 40103)
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			deny(ctx, 40105)
			return
		}
		if revoked.IsRevoked(ctx.Request.Context(), claims.ID) {
			deny(ctx, 40104)
			return
		}
		if err := sessions.CheckSession(ctx.Request.Context()); err != nil {
			deny(ctx, 40106)
			return
		}

		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// ClaimsFrom returns the claims stored by AdminRequired.
func ClaimsFrom(ctx *gin.Context) (*utils.Claims, bool) {
	v, ok := ctx.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	c, ok := v.(*utils.Claims)
	return c, ok
}

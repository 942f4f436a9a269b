package api

import (
	"net/http"
	"strings"

	"gatepass/service/security"
	"gatepass/util"

	"github.com/gin-gonic/gin"
)

// Key of the verified claims in the gin context
const claimsKey = "claims"

// CORS middleware
func (server *Server) CORSMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		// Handle preflight and return immediately so Gin doesn't respond 404 for OPTIONS
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusOK)
			return
		}

		ctx.Next()
	}
}

// Extract the bearer token from the Authorization header
func (server *Server) GetToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// Require a valid admin access token
func (server *Server) AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := server.GetToken(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{"Unauthorized access"})
			return
		}

		claims, err := server.jwtService.VerifyToken(token)
		if err != nil {
			util.LOGGER.Warn("auth middleware: invalid access token", "path", ctx.FullPath(), "error", err)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{"Invalid or expired token"})
			return
		}

		ctx.Set(claimsKey, claims)
		ctx.Next()
	}
}

// Attach the admin claims when a valid token is present, never reject
func (server *Server) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token := server.GetToken(ctx); token != "" {
			if claims, err := server.jwtService.VerifyToken(token); err == nil {
				ctx.Set(claimsKey, claims)
			}
		}
		ctx.Next()
	}
}

// Verified claims of the caller, nil for anonymous callers
func getClaims(ctx *gin.Context) *security.CustomClaims {
	value, ok := ctx.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*security.CustomClaims)
	return claims
}

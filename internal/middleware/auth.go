package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pawpoint/vetclinic/internal/auth"
	"github.com/pawpoint/vetclinic/internal/config"
	"github.com/pawpoint/vetclinic/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextClinicID = "clinicID"
	ContextUserRole = "userRole"
	ContextTokenJTI = "tokenJTI"
	ContextTokenExp = "tokenExp"
)

func AuthMiddleware(cfg *config.Config, denylist *auth.TokenDenylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok1 := claims["sub"].(float64)
		clinicID, ok2 := claims["clinicId"].(float64)
		role, _ := claims["role"].(string)
		jti, _ := claims["jti"].(string)
		exp, _ := claims["exp"].(float64)
		if !ok1 || !ok2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		if denylist != nil && jti != "" {
			revoked, err := denylist.IsRevoked(c.Request.Context(), jti)
			if err != nil {
				// Redis down must not lock staff out.
				log.Printf("token denylist check failed: %v", err)
			} else if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token_revoked"})
				return
			}
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextClinicID, uint(clinicID))
		c.Set(ContextUserRole, role)
		c.Set(ContextTokenJTI, jti)
		c.Set(ContextTokenExp, int64(exp))

		c.Next()
	}
}

// ActorFromContext rebuilds the acting user from the auth claims. Nil
// when the request is unauthenticated.
func ActorFromContext(c *gin.Context) *models.User {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	userID, ok := id.(uint)
	if !ok {
		return nil
	}

	actor := &models.User{ID: userID}
	if v, ok := c.Get(ContextClinicID); ok {
		if clinicID, ok := v.(uint); ok {
			actor.ClinicID = clinicID
		}
	}
	if v, ok := c.Get(ContextUserRole); ok {
		if role, ok := v.(string); ok {
			actor.Role = role
		}
	}
	return actor
}

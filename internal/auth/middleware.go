package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	claimsKey   = "auth_claims"
	businessKey = "auth_business_id"
)

// Middleware validates the bearer token and stores the claims in the gin
// context for downstream handlers.
func Middleware(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tm.Validate(strings.TrimPrefix(header, "Bearer "), "access")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireBusinessAccess checks that the caller holds a role for the business
// referenced by the request (path param first, query fallback). With no roles
// listed, any role grants access.
func RequireBusinessAccess(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		businessID := c.Param("business_id")
		if businessID == "" {
			businessID = c.Query("business_id")
		}
		if businessID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "business_id is required"})
			return
		}

		var role string
		for _, r := range claims.Roles {
			if r.BusinessID == businessID {
				role = r.Role
				break
			}
		}
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no access to this business"})
			return
		}
		if len(roles) > 0 {
			allowed := false
			for _, want := range roles {
				if role == want {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
				return
			}
		}
		c.Set(businessKey, businessID)
		c.Next()
	}
}

// BusinessIDFrom returns the business id the request was authorized for.
// Handlers must scope every read and mutation to it.
func BusinessIDFrom(c *gin.Context) string {
	return c.GetString(businessKey)
}

// SameBusiness rejects request bodies that name a business other than the one
// the token was checked against. Returns false after writing the response.
func SameBusiness(c *gin.Context, businessID string) bool {
	if businessID == BusinessIDFrom(c) {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "no access to this business"})
	return false
}

func ClaimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// HasBusinessRole reports whether the claim set carries any role for the
// business. Used by the websocket handler, which cannot rely on gin aborts.
func HasBusinessRole(claims *Claims, businessID string) bool {
	if claims == nil {
		return false
	}
	for _, r := range claims.Roles {
		if r.BusinessID == businessID {
			return true
		}
	}
	return false
}

package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go-ems/internal/domain"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys populated by AuthMiddleware for downstream handlers.
const (
	CtxUserID     = "user_id"
	CtxEmployeeID = "employee_id"
	CtxRole       = "role"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.ErrUnauthorized.Message)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			// Expired tokens get a distinct message so clients know the
			// session ended rather than the credentials being wrong.
			errObj := apperror.ErrUnauthorized
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = apperror.ErrAuthExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Message)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid token claims")
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "User ID not found in token")
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if !domain.Role(role).Valid() {
			response.Error(c, http.StatusUnauthorized, "Role not found in token")
			c.Abort()
			return
		}

		// Employee ID is optional: admin accounts need not be linked to an
		// employee record.
		employeeID, _ := claims["employee_id"].(string)

		c.Set(CtxUserID, userID)
		c.Set(CtxEmployeeID, employeeID)
		c.Set(CtxRole, role)

		c.Next()
	}
}

// RequireRoles rejects any caller whose authenticated role is not in the
// allowed set. It assumes AuthMiddleware already ran.
func RequireRoles(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := domain.Role(c.GetString(CtxRole))

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Message)
		c.Abort()
	}
}

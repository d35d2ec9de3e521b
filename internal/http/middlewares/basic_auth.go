package middlewares

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BasicAuth parses an `Authorization: Basic <base64(username:password)>`
// header and stashes the extracted pair on the request context. It never
// checks the password against storage; that is the signin handler's job.
func BasicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "authorization header is required",
				},
			})
			return
		}

		payload, found := strings.CutPrefix(authHeader, "Basic ")
		if !found || payload == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "username and password are required",
				},
			})
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "username and password are required",
				},
			})
			return
		}

		// split on the first colon only; passwords may embed colons
		username, password, _ := strings.Cut(string(decoded), ":")

		if username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "username required, no username provided",
				},
			})
			return
		}

		if password == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "password required, no password provided",
				},
			})
			return
		}

		c.Set(string(CtxUsername), username)
		c.Set(string(CtxPassword), password)

		c.Next()
	}
}

func BasicCredentialsFromContext(c *gin.Context) (username, password string, ok bool) {
	u, uok := c.Get(string(CtxUsername))
	p, pok := c.Get(string(CtxPassword))

	if !uok || !pok {
		return "", "", false
	}

	username, uok = u.(string)
	password, pok = p.(string)

	return username, password, uok && pok
}

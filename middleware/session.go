// Package middleware contains any custom middleware used in the app
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const sessionCookie = "cg_session"

const sessionMaxAge = 60 * 60 * 24 * 30

// NewSessionMiddleware attaches a stable opaque session id to every
// request. The id rides in a signed cookie; a valid cookie is reused
// unchanged, anything else gets a freshly minted id. The id is the only
// correlation key the gate uses, never the IP or any fingerprint, so
// distinct users behind shared infrastructure don't get conflated.
func NewSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, err := c.Cookie(sessionCookie); err == nil {
			if sid := parseSession(tokenStr); sid != "" {
				c.Set("sessionID", sid)
				c.Next()
				return
			}
		}

		sid, err := gonanoid.New(21)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal_server_error",
			})

			zap.L().Error("Failed to mint session id", zap.Error(err))
			return
		}

		signed, err := makeSessionToken(sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal_server_error",
			})

			zap.L().Error("Failed to sign session token", zap.Error(err))
			return
		}

		c.SetCookie(sessionCookie, signed, sessionMaxAge, "/", "", viper.GetBool("host.ssl.enabled"), true)
		c.Set("sessionID", sid)
		c.Next()
	}
}

func parseSession(tokenStr string) string {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	sid, _ := claims["sid"].(string)
	return sid
}

func makeSessionToken(sid string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(sessionMaxAge * time.Second).Unix(),
	})

	return t.SignedString([]byte(viper.GetString("jwt.secret")))
}

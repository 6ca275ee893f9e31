package middleware

import (
	"net/http"

	"linknest/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// The signed identity token rides inside the cookie session under this key.
const tokenKey = "token"

// Token returns the identity token carried by the request, or "" for
// anonymous clients.
func Token(c *gin.Context) string {
	session := sessions.Default(c)
	token, _ := session.Get(tokenKey).(string)
	return token
}

// SaveToken stores a freshly issued token in the cookie session.
func SaveToken(c *gin.Context, token string) error {
	session := sessions.Default(c)
	session.Set(tokenKey, token)
	return session.Save()
}

// ClearToken discards the client-held token, ending the session.
func ClearToken(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// LoadUser resolves the session token to a user record and sets it on the
// context. An unverifiable token or a token naming a vanished user just
// leaves the request anonymous.
func LoadUser(sessionSvc *services.SessionService, accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if username, ok := sessionSvc.CurrentUser(Token(c)); ok {
			if user, err := accounts.FindByUsername(username); err == nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

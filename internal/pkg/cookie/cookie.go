package cookie

import (
	"github.com/gin-gonic/gin"
)

// Tokens are issued by the campus identity service; the cookie is set on the
// shared parent domain and only read here.
const AccessTokenCookieName = "access_token"

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}

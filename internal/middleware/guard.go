package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/wallet-ledger/pkg/web"
)

var (
	errMissingToken = "authorization header is not provided"
	errInvalidToken = "invalid api token"
)

// Guard rejects requests that do not carry the configured API token in the
// Authorization header. An optional "Bearer " prefix is accepted.
func Guard(token string) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		header := gctx.GetHeader("Authorization")
		if header == "" {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Response{Error: errMissingToken})
			return
		}

		presented := strings.TrimPrefix(header, "Bearer ")

		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			gctx.AbortWithStatusJSON(http.StatusForbidden, web.Response{Error: errInvalidToken})
			return
		}

		gctx.Next()
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const token = "valid-token"

	testCases := []struct {
		name           string
		authorization  string
		wantStatusCode int
	}{
		{
			name:           "OK",
			authorization:  token,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "OKBearerPrefix",
			authorization:  "Bearer " + token,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "MissingHeader",
			authorization:  "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "InvalidToken",
			authorization:  "wrong-token",
			wantStatusCode: http.StatusForbidden,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server := gin.New()
			server.Use(Guard(token))
			server.GET("/", func(gctx *gin.Context) {
				gctx.Status(http.StatusOK)
			})

			req, err := http.NewRequest(http.MethodGet, "/", nil)
			require.NoError(t, err)

			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)
		})
	}
}

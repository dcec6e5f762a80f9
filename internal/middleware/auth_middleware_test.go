package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(jwtService *auth.JWTService) *gin.Engine {
	r := gin.New()
	r.GET("/me", NewAuthMiddleware(jwtService).JWTAuth(), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "role": role})
	})
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "middleware-secret", TokenIssuer: "bazaar-test"})
	user := &models.User{ID: uuid.New(), Email: "ada@example.com", Role: models.RoleSeller}
	token, _, err := jwtService.GenerateToken(user)
	require.NoError(t, err)

	foreign := auth.NewJWTService(auth.JWTConfig{SecretKey: "other-secret", TokenIssuer: "bazaar-test"})
	forged, _, err := foreign.GenerateToken(user)
	require.NoError(t, err)

	router := newAuthRouter(jwtService)

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantCode   dto.ErrorCode
		wantMsg    string
	}{
		{name: "bearer token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "raw token", header: token, wantStatus: http.StatusOK},
		{name: "quoted header", header: `"Bearer ` + token + `"`, wantStatus: http.StatusOK},
		{name: "query token", query: "Bearer%20" + token, wantStatus: http.StatusOK},
		{name: "missing", wantStatus: http.StatusUnauthorized, wantCode: dto.ErrorCodeTokenNotFound, wantMsg: "Access denied. No token provided."},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: dto.ErrorCodeInvalidToken, wantMsg: "Invalid token."},
		{name: "signed with another secret", header: "Bearer " + forged, wantStatus: http.StatusUnauthorized, wantCode: dto.ErrorCodeInvalidToken, wantMsg: "Invalid token."},
		{name: "garbage", header: "Bearer a.b.c", wantStatus: http.StatusUnauthorized, wantCode: dto.ErrorCodeInvalidToken, wantMsg: "Invalid token."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/me"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, user.ID.String(), body["id"])
				assert.EqualValues(t, models.RoleSeller, body["role"])
				return
			}

			body := decodeError(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

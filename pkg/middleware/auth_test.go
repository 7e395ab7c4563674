package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/bizlink/bizlink-admin/internal/sessions"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	switch raw {
	case "goodtoken", "black-token":
		return &fakeToken{data: map[string]interface{}{"sub": "member1", "role": "member"}}, nil
	case "admintoken":
		return &fakeToken{data: map[string]interface{}{"sub": "admin1", "role": "admin"}}, nil
	case "ssotoken":
		return &fakeToken{data: map[string]interface{}{
			"sub":          "kc-user",
			"realm_access": map[string]interface{}{"roles": []interface{}{"offline_access", "admin"}},
		}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	rw := serve(g, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "UNAUTHORIZED")
}

func TestAuthMiddleware_InvalidHeader(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "BadHeader")

	require.Equal(t, http.StatusUnauthorized, serve(g, req).Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"member": MemberID(c), "role": Role(c), "token": RawToken(c)})
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer goodtoken")
	rw := serve(g, req)

	require.Equal(t, http.StatusOK, rw.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Equal(t, "member1", got["member"])
	require.Equal(t, "member", got["role"])
	require.Equal(t, "goodtoken", got["token"])
}

func TestCookieAuthMiddleware_ReadsCookie(t *testing.T) {
	g := gin.New()
	g.GET("/", CookieAuthMiddleware(&fakeVerifier{}, "token"), func(c *gin.Context) {
		c.String(http.StatusOK, MemberID(c))
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "goodtoken"})
	rw := serve(g, req)

	require.Equal(t, http.StatusOK, rw.Code)
	require.Equal(t, "member1", rw.Body.String())
}

func TestAuthMiddleware_RejectsBlacklistedToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	sessions.SetBlacklistClient(client)
	defer sessions.SetBlacklistClient(nil)

	token := "black-token"
	require.NoError(t, sessions.BlacklistAccessToken(context.Background(), token, 5*time.Second))

	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	require.Equal(t, http.StatusUnauthorized, serve(g, req).Code)
}

func TestRequireRole(t *testing.T) {
	g := gin.New()
	g.GET("/admin", AuthMiddleware(&fakeVerifier{}), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for token, want := range map[string]int{
		"goodtoken":  http.StatusForbidden,
		"admintoken": http.StatusOK,
		"ssotoken":   http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		require.Equal(t, want, serve(g, req).Code, token)
	}
}

func TestRequireRole_Anonymous(t *testing.T) {
	g := gin.New()
	g.GET("/admin", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusUnauthorized, serve(g, httptest.NewRequest(http.MethodGet, "/admin", nil)).Code)
}

func TestChainVerifier(t *testing.T) {
	cv := ChainVerifier{nil, &fakeVerifier{}}
	_, err := cv.Verify(context.Background(), "admintoken")
	require.NoError(t, err)

	_, err = cv.Verify(context.Background(), "nope")
	require.Error(t, err)

	_, err = ChainVerifier{}.Verify(context.Background(), "admintoken")
	require.Error(t, err)
}

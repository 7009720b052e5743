package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	jwtutil "quicksort/backend/app/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, wantSubject string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := GetClaims(r.Context())
		if wantSubject == "" {
			assert.Nil(t, c)
		} else {
			require.NotNil(t, c)
			assert.Equal(t, wantSubject, c.Subject)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuthDisabled(t *testing.T) {
	a := &Auth{Signer: &jwtutil.Signer{}}
	rec := httptest.NewRecorder()
	a.RequireAuth(okHandler(t, "")).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rules", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	signer := &jwtutil.Signer{Secret: []byte("k"), Issuer: "quicksort", ExpMin: 5}
	a := &Auth{Signer: signer}
	h := a.RequireAuth(okHandler(t, "cli"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rules", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	req := httptest.NewRequest(http.MethodPost, "/api/rules", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := signer.Sign("cli", "")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/rules", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSubject(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Anonymous, Subject(ctx))
	assert.Equal(t, Anonymous, Subject(context.WithValue(ctx, ClaimsKey, &jwtutil.Claims{})))

	c := &jwtutil.Claims{}
	c.Subject = "cli"
	assert.Equal(t, "cli", Subject(context.WithValue(ctx, ClaimsKey, c)))
}

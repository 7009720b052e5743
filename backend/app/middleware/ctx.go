package middleware

import (
	"context"

	jwtutil "quicksort/backend/app/jwt"
)

// Anonymous is the subject reported for requests without a token.
const Anonymous = "anonymous"

func GetClaims(ctx context.Context) *jwtutil.Claims {
	if c, ok := ctx.Value(ClaimsKey).(*jwtutil.Claims); ok {
		return c
	}
	return nil
}

// Subject names the caller behind ctx. Tokens without a subject and
// unauthenticated requests both report Anonymous.
func Subject(ctx context.Context) string {
	if c := GetClaims(ctx); c != nil && c.Subject != "" {
		return c.Subject
	}
	return Anonymous
}

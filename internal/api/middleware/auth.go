package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/inlyne/inlyne-server/internal/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	claimsKey contextKey = "claims"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "access_token"

// Auth requires a valid session cookie and stores the user's id and claims
// on the request context. Reset-typed tokens are rejected by the verifier.
func Auth(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				unauthorized(w, "Authentication required")
				return
			}

			claims, err := tokens.VerifySession(cookie.Value)
			if err != nil {
				unauthorized(w, "Invalid or expired session")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				unauthorized(w, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"msg": msg, "success": false})
}

func GetUserID(ctx context.Context) (primitive.ObjectID, bool) {
	userID, ok := ctx.Value(userIDKey).(primitive.ObjectID)
	return userID, ok
}

func GetClaims(ctx context.Context) (*token.AuthClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.AuthClaims)
	return claims, ok
}

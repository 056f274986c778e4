package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"leaseboard/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenVerifier resolves a bearer token to claims. Two implementations:
// local HS256 tokens minted by the auth service, and RS256 tokens verified
// against an external identity provider's JWKS endpoint.
type TokenVerifier interface {
	Verify(tokenString string) (jwt.MapClaims, error)
}

type hs256Verifier struct {
	secret []byte
}

func NewHS256Verifier(secret string) TokenVerifier {
	return &hs256Verifier{secret: []byte(secret)}
}

func (v *hs256Verifier) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

type jwksVerifier struct {
	jwks *keyfunc.JWKS
}

// NewJWKSVerifier fetches the identity provider's key set. Returns nil when
// jwksURL is empty so the caller can fall back to HS256-only verification.
func NewJWKSVerifier(jwksURL string) TokenVerifier {
	if jwksURL == "" {
		return nil
	}
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
	if err != nil {
		log.Printf("WARN: JWKS fetch failed, external tokens will be rejected: %v", err)
		return nil
	}
	return &jwksVerifier{jwks: jwks}
}

func (v *jwksVerifier) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, v.jwks.Keyfunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// AuthMiddleware validates the bearer token against each verifier in order
// and injects the authenticated user id into the request context.
func AuthMiddleware(verifiers ...TokenVerifier) echo.MiddlewareFunc {
	active := make([]TokenVerifier, 0, len(verifiers))
	for _, v := range verifiers {
		if v != nil {
			active = append(active, v)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return common.SendUnauthorizedError(c, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return common.SendUnauthorizedError(c, "Invalid token format")
			}

			var claims jwt.MapClaims
			var err error
			for _, v := range active {
				claims, err = v.Verify(tokenString)
				if err == nil {
					break
				}
			}
			if claims == nil {
				return common.SendUnauthorizedError(c, "Invalid token")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return common.SendUnauthorizedError(c, "Missing user id in token")
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				return common.SendUnauthorizedError(c, "Invalid user id format")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			if email, ok := claims["email"].(string); ok {
				ctx = context.WithValue(ctx, common.UserEmailKey, email)
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireUserID pulls the authenticated user id or writes a 401.
func RequireUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return userID, nil
}

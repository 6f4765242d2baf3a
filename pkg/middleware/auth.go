package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	httputil "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/http"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
)

type Role string

const (
	RoleViewer  Role = "viewer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

func (r Role) rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

func (r Role) IsValid() bool {
	return r.rank() > 0
}

// Satisfies reports whether r is at least min.
func (r Role) Satisfies(min Role) bool {
	return r.IsValid() && r.rank() >= min.rank()
}

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	Subject string
	Role    Role
}

type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens. With an empty secret it is
// disabled and every caller is treated as an anonymous admin.
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

func (a *Authenticator) Parse(tokenString string) (*Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Principal{Subject: claims.Subject, Role: claims.Role}, nil
}

// Issue signs a token for p valid for ttl.
func (a *Authenticator) Issue(p Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

var anonymous = &Principal{Subject: "anonymous", Role: RoleAdmin}

// Authenticate resolves the bearer token into a Principal. Requests without a
// valid token are rejected with 401.
func Authenticate(a *Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.Enabled() {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), anonymous)))
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				_ = httputil.WriteError(w, apperrors.Unauthorized("missing bearer token"))
				return
			}

			principal, err := a.Parse(token)
			if err != nil {
				log.Warn("Rejected bearer token",
					"request_id", RequestIDFrom(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				_ = httputil.WriteError(w, apperrors.Unauthorized("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireRole guards a route so that only callers with at least min may
// reach it.
func RequireRole(min Role, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		principal, ok := PrincipalFrom(r.Context())
		if !ok {
			_ = httputil.WriteError(w, apperrors.Unauthorized("authentication required"))
			return
		}
		if !principal.Role.Satisfies(min) {
			_ = httputil.WriteError(w, apperrors.Forbidden(fmt.Sprintf("%s role required", min)))
			return
		}
		next(w, r, ps)
	}
}

// Actor names the caller for audit fields.
func Actor(ctx context.Context) string {
	if p, ok := PrincipalFrom(ctx); ok {
		return p.Subject
	}
	return ""
}

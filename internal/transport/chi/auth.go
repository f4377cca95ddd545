package chi

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// Scopes guarding mutating and reporting routes.
const (
	ScopeArticlesRead    = "articles:read"
	ScopeArticlesWrite   = "articles:write"
	ScopeArticlesDelete  = "articles:delete"
	ScopeArticlesPublish = "articles:publish"
	ScopeAnalyticsRead   = "analytics:read"
)

// AllScopes is granted to API keys and the development principal.
var AllScopes = []string{
	ScopeArticlesRead, ScopeArticlesWrite, ScopeArticlesDelete, ScopeArticlesPublish, ScopeAnalyticsRead,
}

const defaultTenant = "tenant_default"

// Principal is the authenticated caller.
type Principal struct {
	ID       string
	TenantID string
	Scopes   []string
	// Dev marks the implicit principal used when authentication is off.
	Dev bool
}

// Has reports whether the principal holds scope.
func (p Principal) Has(scope string) bool {
	return slices.Contains(p.Scopes, scope)
}

type principalKey struct{}

// PrincipalFrom returns the principal stored by the auth middleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// AuthConfig configures request authentication.
type AuthConfig struct {
	Required  bool
	APIKeys   []string
	JWTSecret string
}

// tokenClaims are the HS256 bearer token claims; scope is space-delimited.
type tokenClaims struct {
	TenantID string `json:"tenant_id"`
	Scope    string `json:"scope"`
	jwt.RegisteredClaims
}

// Authenticator resolves bearer credentials to principals.
type Authenticator struct {
	required bool
	keys     [][]byte
	secret   []byte
}

// NewAuthenticator creates an authenticator. Empty API keys are ignored.
func NewAuthenticator(cfg AuthConfig) *Authenticator {
	a := &Authenticator{required: cfg.Required}
	for _, k := range cfg.APIKeys {
		if k != "" {
			a.keys = append(a.keys, []byte(k))
		}
	}
	if cfg.JWTSecret != "" {
		a.secret = []byte(cfg.JWTSecret)
	}
	return a
}

// Authenticate resolves the Authorization header value.
func (a *Authenticator) Authenticate(header string) (Principal, error) {
	if !a.required {
		return Principal{ID: "user_dev", TenantID: defaultTenant, Scopes: AllScopes, Dev: true}, nil
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(header, bearerPrefix) {
		return Principal{}, fmt.Errorf("bearer token required: %w", domain.ErrUnauthorized)
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return Principal{}, fmt.Errorf("empty bearer token: %w", domain.ErrUnauthorized)
	}

	for i, k := range a.keys {
		if subtle.ConstantTimeCompare([]byte(token), k) == 1 {
			return Principal{ID: fmt.Sprintf("apikey_%d", i), TenantID: defaultTenant, Scopes: AllScopes}, nil
		}
	}
	if a.secret == nil {
		return Principal{}, fmt.Errorf("unknown api key: %w", domain.ErrUnauthorized)
	}
	return a.parseToken(token)
}

func (a *Authenticator) parseToken(raw string) (Principal, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Principal{}, fmt.Errorf("parse token: %w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("token without sub: %w", domain.ErrUnauthorized)
	}
	tenant := claims.TenantID
	if tenant == "" {
		tenant = defaultTenant
	}
	return Principal{ID: claims.Subject, TenantID: tenant, Scopes: strings.Fields(claims.Scope)}, nil
}

// Middleware authenticates every request and stores the principal.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				msg := "Authentication required. Provide a Bearer token."
				if r.Header.Get("Authorization") != "" {
					msg = "Invalid token"
				}
				writeError(w, r, http.StatusUnauthorized, codeUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
		})
	}
}

// RequireScope rejects principals lacking scope with 403.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok || !p.Has(scope) {
				scopeHandler(w, r, &domain.ScopeError{Required: scope})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SignToken issues an HS256 token; used by tooling and tests.
func SignToken(secret, subject, tenant string, scopes []string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = subject
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		TenantID:         tenant,
		Scope:            strings.Join(scopes, " "),
		RegisteredClaims: claims,
	})
	s, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

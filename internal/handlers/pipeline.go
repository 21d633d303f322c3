package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/apolion-games/mentorhub/internal/services"
	"github.com/apolion-games/mentorhub/internal/token"
)

// Route constants shared by the pipeline stages. The public prefix, the
// error path, and the login path bypass token validation; token issuance
// happens on the login path only.
const (
	PublicPathPrefix = "/public/app/v1/"
	LoginPath        = "/app/v1/login"
	ErrorPath        = "/error"
	HealthPath       = "/healthz"
	RootPath         = "/"

	// TokenHeader carries the issued token on the login response and the
	// presented token on subsequent requests.
	TokenHeader = "Authorization"
)

// RequiredAuthorities is the fixed set of grants accepted on protected
// paths. A request needs at least one of them.
var RequiredAuthorities = []string{
	"ROLE_ADMIN",
	"ROLE_MENTOR",
	"ROLE_MENTEE",
}

func isPublicPath(path string) bool {
	return strings.HasPrefix(path, PublicPathPrefix) ||
		path == ErrorPath ||
		path == HealthPath ||
		path == RootPath
}

// Pipeline holds the ordered request-processing stages. Each stage is a
// middleware that either populates the request context or short-circuits
// with 401/403; no stage touches ambient global state.
type Pipeline struct {
	codec    *token.Codec
	accounts *services.AccountService
	logger   *slog.Logger
}

// NewPipeline constructs the pipeline stages. logger may be nil.
func NewPipeline(codec *token.Codec, accounts *services.AccountService, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		codec:    codec,
		accounts: accounts,
		logger:   logger,
	}
}

// ValidateRequest is the first stage: a structural sanity check before any
// authentication runs. Business validation rules hook in here.
func (p *Pipeline) ValidateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.Header.Get(TokenHeader)) > 8192 {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate resolves the request identity. A presented token is decoded
// and verified; on the login path, Basic credentials are checked against
// the account store. Public-prefixed paths and the error path skip token
// validation entirely.
func (p *Pipeline) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if r.URL.Path == LoginPath {
			email, plaintext, ok := r.BasicAuth()
			if !ok {
				writeError(w, http.StatusUnauthorized, "credentials required")
				return
			}
			account, err := p.accounts.Authenticate(r.Context(), email, plaintext)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "bad credentials")
				return
			}
			principal := Principal{
				Name:        account.Email,
				Authorities: account.AuthorityNames(),
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
			return
		}

		if isPublicPath(path) {
			next.ServeHTTP(w, r)
			return
		}

		presented := strings.TrimSpace(r.Header.Get(TokenHeader))
		if presented == "" {
			next.ServeHTTP(w, r)
			return
		}
		presented = strings.TrimSpace(strings.TrimPrefix(presented, "Bearer "))

		claims, err := p.codec.Validate(presented, time.Now())
		if err != nil {
			// EXPIRED, MALFORMED, and INVALID_SIGNATURE all collapse
			// into one rejection; no partial trust.
			writeError(w, http.StatusUnauthorized, "invalid token received")
			return
		}
		principal := Principal{
			Name:        claims.Username,
			Authorities: claims.AuthorityNames(),
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// IssueToken emits a fresh token into the response header. It runs on the
// login path only and is skipped for anonymous principals.
func (p *Pipeline) IssueToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != LoginPath {
			next.ServeHTTP(w, r)
			return
		}
		principal, ok := PrincipalFromContext(r.Context())
		if !ok || principal.Anonymous() {
			next.ServeHTTP(w, r)
			return
		}
		signed, err := p.codec.Issue(principal.Name, principal.Authorities, time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}
		w.Header().Set(TokenHeader, signed)
		next.ServeHTTP(w, r)
	})
}

// Authorize gates protected paths on the fixed authority set. Public paths
// always pass. The audit hooks around the decision log the principal and
// the outcome; they never alter control flow.
func (p *Pipeline) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		principal, ok := PrincipalFromContext(r.Context())
		p.logger.Info("authorization check",
			slog.String("principal", principal.Name),
			slog.String("path", r.URL.Path),
		)

		if !ok || principal.Anonymous() {
			p.logger.Info("authorization denied",
				slog.String("principal", principal.Name),
				slog.String("reason", "unauthenticated"),
			)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !principal.HasAnyAuthority(RequiredAuthorities...) {
			p.logger.Info("authorization denied",
				slog.String("principal", principal.Name),
				slog.String("reason", "missing authority"),
			)
			writeError(w, http.StatusForbidden, "access denied")
			return
		}

		p.logger.Info("authorization granted", slog.String("principal", principal.Name))
		next.ServeHTTP(w, r)
	})
}

// Stages returns the middlewares in pipeline order.
func (p *Pipeline) Stages() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		p.ValidateRequest,
		p.Authenticate,
		p.IssueToken,
		p.Authorize,
	}
}

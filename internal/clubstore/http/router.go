package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/service"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/store"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"

	_ "github.com/aussiebroadwan/clubhouse/api/clubstore" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	signerReady  func() bool

	store               store.Store
	AuthService         *service.AuthService
	DirectoryService    *service.DirectoryService
	RegistrationService *service.RegistrationService
	TeamService         *service.TeamService
	CoachService        *service.CoachService
}

// NewRouter creates a router. signerReady reports whether session tokens
// can be verified; /readyz fails while it returns false.
func NewRouter(buildVersion string, st store.Store, signerReady func() bool, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		signerReady:  signerReady,
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerDirectory()
	r.registerAccounts()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Clubhouse Club Store API
//	@version		0.1.0
//	@description	Credential, session and directory service for club administrators, coaches and parents.
//	@description
//	@description				Session tokens are EdDSA signed JWTs backed by a revocable server-side session.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/clubhouse
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{AuthService: r.AuthService}

	// Sign-in - strict rate limit by IP (brute force target)
	r.Mux.Handle("POST /v1/sessions/password",
		httpx.Chain(http.HandlerFunc(h.HandlePasswordSignIn),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/sessions/phone",
		httpx.Chain(http.HandlerFunc(h.HandlePhoneSignIn),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Resume and sign out - lenient rate limit by subject
	r.Mux.Handle("GET /v1/sessions/current",
		httpx.Chain(http.HandlerFunc(h.HandleCurrent),
			httpx.AuthnMiddleware(r.AuthService),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/sessions/current",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			httpx.AuthnMiddleware(r.AuthService),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)

	// Password change - strict by subject (current password is verified)
	r.Mux.Handle("PUT /v1/me/password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			httpx.AuthnMiddleware(r.AuthService),
			httpx.RateLimitBySubject(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerDirectory() {
	h := &DirectoryHandler{DirectoryService: r.DirectoryService}

	// Public lookups - lookup rate limit by IP so codes cannot be enumerated
	lookup := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIP(httpx.LookupLimit))
	}

	r.Mux.Handle("GET /v1/coaches", lookup(h.HandleCoachLookup))
	r.Mux.Handle("GET /v1/users/{id}", lookup(h.HandleUserLookup))
	r.Mux.Handle("GET /v1/parents", lookup(h.HandleParentLookup))
	r.Mux.Handle("GET /v1/teams", lookup(h.HandleTeamLookup))

	// Parent self-registration - strict by IP
	r.Mux.Handle("POST /v1/parents",
		httpx.Chain(http.HandlerFunc(h.HandleCreateParent),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &RegisterHandler{RegistrationService: r.RegistrationService}

	// POST /v1/register - strict by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	teams := &TeamsHandler{TeamService: r.TeamService}
	coaches := &CoachesHandler{CoachService: r.CoachService}

	admin := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.AuthService),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/teams", admin(teams.HandleCreate))
	r.Mux.Handle("GET /v1/teams/mine", admin(teams.HandleListMine))
	r.Mux.Handle("POST /v1/coaches", admin(coaches.HandleCreate))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signerReady),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

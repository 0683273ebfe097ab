package http

import (
	"net/http"
	"time"

	"rh-platform/internal/httpx"
	obsmw "rh-platform/internal/observability/middleware"
	"rh-platform/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	Auth    service.AuthService
	Profile service.ProfileService
	Leads   service.LeadService
	Admin   service.AdminService
}

type Options struct {
	CORSOrigins           []string
	RateLimitPerMinute    int // per client IP, all routes
	OTPRateLimitPerMinute int // per client IP, code-sending routes
	TrustProxy            bool
	RequestTimeout        time.Duration
}

type handler struct {
	svc  Services
	opts Options
}

func NewRouter(svc Services, opts Options) chi.Router {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	h := &handler{svc: svc, opts: opts}

	r := chi.NewRouter()

	// --- Middlewares ---
	r.Use(obsmw.WithRequestAndTrace)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(opts.RequestTimeout))
	r.Use(obsmw.WithMetrics)
	if opts.RateLimitPerMinute > 0 {
		r.Use(limitByIP(opts.RateLimitPerMinute))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsOrAll(opts.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", obsmw.HeaderRequestID, obsmw.HeaderTraceID},
		ExposedHeaders:   []string{obsmw.HeaderRequestID},
		AllowCredentials: false, // bearer tokens only, no cookies
		MaxAge:           300,
	}))

	r.Get("/healthz", healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", healthz)

		// -------- Public auth endpoints --------
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/refresh", h.refresh)
			r.With(RequireUser(svc.Auth)).Get("/me", h.me)

			r.Route("/signup", func(r chi.Router) {
				if opts.OTPRateLimitPerMinute > 0 {
					r.Use(limitByIP(opts.OTPRateLimitPerMinute))
				}
				r.Post("/request-otp", h.requestSignupOTP)
				r.Post("/verify-otp", h.verifySignupOTP)
				r.Post("/resend-otp", h.resendSignupOTP)
				r.Post("/complete", h.completeSignup)
			})
		})

		r.Post("/admin/login", h.adminLogin)

		// -------- Authenticated user endpoints --------
		r.Group(func(r chi.Router) {
			r.Use(RequireUser(svc.Auth))

			r.Patch("/profile/onboarding", h.updateOnboarding)
			r.Put("/me/profile", h.updateProfile)

			r.Post("/leads", h.createLead)
			r.Get("/leads", h.listMyLeads)
			r.Get("/leads/{id}", h.getMyLead)
		})

		// -------- Admin endpoints --------
		r.Group(func(r chi.Router) {
			r.Use(RequireUser(svc.Auth))
			r.Use(RequireAdmin)

			r.Get("/admin/users", h.adminListUsers)
			r.Get("/admin/users/{id}", h.adminGetUser)
			r.Get("/admin/leads", h.adminListLeads)
			r.Get("/admin/leads/{id}", h.adminGetLead)
			r.Patch("/admin/leads/{id}", h.adminUpdateLead)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func limitByIP(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteError(w, http.StatusTooManyRequests, "Too many requests.")
		}),
	)
}

// originsOrAll treats an empty list as "*".
func originsOrAll(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}

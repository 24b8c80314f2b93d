package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/synergy-credit/scorenorm/internal/auth/middleware"
	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/config"
	"github.com/synergy-credit/scorenorm/internal/logging"
	"github.com/synergy-credit/scorenorm/internal/ratelimit"
	"github.com/synergy-credit/scorenorm/internal/rbac"
	"github.com/synergy-credit/scorenorm/internal/settings"
	"github.com/synergy-credit/scorenorm/internal/storage"
	"github.com/synergy-credit/scorenorm/internal/users"
)

type Deps struct {
	Config      config.Config
	Logger      *slog.Logger
	DB          *sql.DB // role lookups; nil keeps token roles
	Auth        *auth.AuthService
	Users       *users.Directory
	Calibration *calibration.Service
	Settings    settings.Store
	Events      EventLister
	Blobs       storage.BlobStore
	Limiter     *ratelimit.Limiter
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(logging.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.DB != nil {
			if err := d.DB.PingContext(r.Context()); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(200)
	})

	// the websocket route stays outside gzip and the request timeout
	r.With(auth.OptionalJWT(d.Auth)).
		Get("/ws/convert", LiveConvertHandler(d.Calibration, d.Settings, NewUpgrader(cfg.CORSOrigins())))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		if cfg.EnableGzip {
			r.Use(compress)
		}

		r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Users))

		// Public reads; a valid bearer token only adds saved settings.
		r.Group(func(pr chi.Router) {
			pr.Use(auth.OptionalJWT(d.Auth))
			pr.Get("/api/countries", ListCountriesHandler())
			pr.Get("/api/data/country-normalization", GetNormalizationHandler(d.Calibration, d.Settings))
			pr.Get("/api/normalize/convert", ConvertHandler(d.Calibration, d.Settings))
			pr.Post("/api/normalize/convert", BatchConvertHandler(d.Calibration))
			pr.Get("/api/normalize/summary", SummaryHandler(d.Calibration, d.Settings))
		})

		// Protected API (JWT -> role in context -> RBAC)
		r.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(d.Auth))
			if d.DB != nil {
				pr.Use(auth.AttachRoleFromDB(d.DB, cfg.Mode == config.ModeOffline))
			}

			pr.With(rbac.Require("settings:own")).Get("/api/me/settings", GetSettingsHandler(d.Calibration, d.Settings))
			pr.With(rbac.Require("settings:own")).Put("/api/me/settings", PutSettingsHandler(d.Calibration, d.Settings))

			pr.With(rbac.Require("anchors:list")).Get("/api/anchors", ListAnchorsHandler(d.Calibration))
			pr.With(rbac.Require("anchors:write")).Put("/api/anchors/{origin}/{dest}", PutAnchorsHandler(d.Calibration))
			pr.With(rbac.Require("anchors:delete")).Delete("/api/anchors/{origin}/{dest}", DeleteAnchorsHandler(d.Calibration))
			if d.Blobs != nil {
				pr.With(rbac.Require("anchors:import")).
					Post("/api/anchors/{origin}/{dest}/import", ImportAnchorsHandler(d.Calibration, d.Blobs))
				pr.With(rbac.Require("anchors:list")).
					Get("/api/anchors/{origin}/{dest}/documents", ListDocumentsHandler(d.Calibration, d.Blobs))
				pr.With(rbac.Require("anchors:list")).Get("/api/documents/*", GetDocumentHandler(d.Blobs))
			}

			if d.Events != nil {
				pr.With(rbac.Require("events:view")).Get("/api/events", ListEventsHandler(d.Events))
			}

			pr.With(rbac.Require("users:bulk_upsert")).Post("/users/bulk", BulkUpsertUsersHandler(d.Users))
			pr.With(rbac.Require("users:list")).Get("/users", ListUsersHandler(d.Users))
		})
	})
	return r
}

package handler

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/jobboard-dev/jobboard/backend/internal/config"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
	"github.com/jobboard-dev/jobboard/backend/internal/service"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	translator ut.Translator
	startedAt  time.Time

	authService        *service.AuthService
	jobService         *service.JobService
	applicationService *service.ApplicationService
	db                 Pinger

	Mux *chi.Mux
}

func NewHandler(
	cfg *config.Config,
	authService *service.AuthService,
	jobService *service.JobService,
	applicationService *service.ApplicationService,
	db Pinger,
) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// report json field names in validation messages
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		translator: trans,
		startedAt:  time.Now(),

		authService:        authService,
		jobService:         jobService,
		applicationService: applicationService,
		db:                 db,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(middleware.RequestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h.Mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.errorResponse(w, r, http.StatusNotFound, "route not found")
	})
	h.Mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.errorResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	h.Mux.Get("/health", h.Health)

	h.Mux.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(h.auth, h.myInfo).Get("/me", h.GetMe)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.ListJobs)
			r.With(h.auth).Post("/", h.CreateJob)
			r.Route("/{id}", func(r chi.Router) {
				r.With(h.pathID).Get("/", h.GetJob)

				// mutations require a bearer token
				r.Group(func(r chi.Router) {
					r.Use(h.auth)
					r.Use(h.pathID)
					r.Put("/", h.UpdateJob)
					r.Delete("/", h.DeleteJob)
					r.Post("/apply", h.ApplyToJob)
				})
			})
		})

		r.Route("/applications", func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/me", h.GetMyApplications)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.pathID)
				r.Delete("/", h.WithdrawApplication)
				r.Put("/status", h.UpdateApplicationStatus)
			})
		})

		r.Route("/employer", func(r chi.Router) {
			r.Use(h.auth)
			r.Use(h.myInfo)
			r.Use(h.RequiredRole(domain.RoleEmployer))
			r.Get("/jobs", h.GetEmployerJobs)
		})
	})
}

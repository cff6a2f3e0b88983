package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/edgehq/edge-backend-go/internal/handler/http/middleware"
	"github.com/edgehq/edge-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	AppEnv      string
	FrontendURL string
}

type Handlers struct {
	Auth         AuthHandler
	Assessment   AssessmentHandler
	Cycle        CycleHandler
	Employee     EmployeeHandler
	Dashboard    DashboardHandler
	Notification NotificationHandler
	Note         NoteHandler
	Engagement   EngagementHandler
	Report       ReportHandler
}

func NewRouter(cfg RouterConfig, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "edge-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.AppEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth", func(r chi.Router) {
				r.Get("/google", h.Auth.GoogleLoginURL)
				r.Get("/callback/google", h.Auth.GoogleCallback)
			})
		})

		// SSE stream authenticates with its own short-lived token
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.Me)
				r.Get("/team", h.Employee.ListTeam)
				r.Get("/{id}", h.Employee.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Employee.List)
					r.Post("/", h.Employee.Create)
					r.Put("/{id}", h.Employee.Update)
					r.Delete("/{id}", h.Employee.Deactivate)
				})
			})

			r.Route("/cycles", func(r chi.Router) {
				r.Get("/", h.Cycle.List)
				r.Get("/{id}", h.Cycle.Get)
				r.Get("/{cycleID}/assessments", h.Assessment.ListByCycle)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Cycle.Create)
					r.Post("/{id}/activate", h.Cycle.Activate)
					r.Post("/{id}/close", h.Cycle.Close)
				})
			})

			r.Route("/assessments", func(r chi.Router) {
				r.Get("/mine", h.Assessment.ListMine)
				r.Get("/team", h.Assessment.ListTeam)
				r.Get("/{id}", h.Assessment.Get)
				r.Get("/{id}/report", h.Report.ReviewPDF)

				// Employee-side workflow operations
				r.Post("/{id}/start", h.Assessment.StartSelfAssessment)
				r.Put("/{id}/draft", h.Assessment.SaveDraft)
				r.Post("/{id}/submit", h.Assessment.SubmitSelfAssessment)
				r.Post("/{id}/acknowledge", h.Assessment.AcknowledgeReview)

				// Manager-side workflow operations
				r.Post("/{id}/review/start", h.Assessment.StartManagerReview)
				r.Post("/{id}/review/submit", h.Assessment.SubmitManagerReview)

				// Admin-side workflow operations
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/{id}/revision", h.Assessment.RequestRevision)
					r.Post("/{id}/approve", h.Assessment.ApproveReview)
					r.Post("/{id}/override", h.Assessment.OverrideState)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/me", h.Dashboard.Employee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Get("/team", h.Dashboard.Manager)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/admin", h.Dashboard.Admin)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Get("/sse-token", h.Notification.GetSSEToken)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Use(middleware.ManagerOnly)
				r.Get("/", h.Note.List)
				r.Post("/", h.Note.Create)
				r.Put("/{id}", h.Note.Update)
				r.Delete("/{id}", h.Note.Delete)
			})

			r.Route("/engagement", func(r chi.Router) {
				r.Post("/pulse", h.Engagement.SubmitPulse)
				r.Get("/pulse", h.Engagement.ListMyPulses)
				r.Post("/feedback", h.Engagement.SendFeedback)
				r.Get("/feedback", h.Engagement.ListMyFeedback)
				r.Post("/kudos", h.Engagement.SendKudo)
				r.Get("/kudos", h.Engagement.ListRecentKudos)
			})
		})
	})

	return r
}

package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/edgehq/edge-backend-go/internal/config"
	appHTTP "github.com/edgehq/edge-backend-go/internal/handler/http"
	"github.com/edgehq/edge-backend-go/internal/pkg/cron"
	"github.com/edgehq/edge-backend-go/internal/pkg/database"
	"github.com/edgehq/edge-backend-go/internal/pkg/email"
	"github.com/edgehq/edge-backend-go/internal/pkg/jwt"
	"github.com/edgehq/edge-backend-go/internal/pkg/oauth"
	"github.com/edgehq/edge-backend-go/internal/pkg/sse"
	"github.com/edgehq/edge-backend-go/internal/pkg/storage"
	"github.com/edgehq/edge-backend-go/internal/repository/postgresql"
	workflowService "github.com/edgehq/edge-backend-go/internal/service/assessment"
	authService "github.com/edgehq/edge-backend-go/internal/service/auth"
	cycleService "github.com/edgehq/edge-backend-go/internal/service/cycle"
	dashboardService "github.com/edgehq/edge-backend-go/internal/service/dashboard"
	employeeService "github.com/edgehq/edge-backend-go/internal/service/employee"
	engagementService "github.com/edgehq/edge-backend-go/internal/service/engagement"
	noteService "github.com/edgehq/edge-backend-go/internal/service/note"
	notificationService "github.com/edgehq/edge-backend-go/internal/service/notification"
	reportService "github.com/edgehq/edge-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	cycleRepo := postgresql.NewCycleRepository(db)
	assessmentRepo := postgresql.NewAssessmentRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	noteRepo := postgresql.NewNoteRepository(db)
	engagementRepo := postgresql.NewEngagementRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(
		cfg.OAuth2Google.ClientID,
		cfg.OAuth2Google.ClientSecret,
		cfg.OAuth2Google.RedirectURL,
		cfg.OAuth2Google.Scopes,
	)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local", "":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatalf("Unsupported storage type: %s", cfg.Storage.Type)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	hub := sse.NewHub()

	notifSvc := notificationService.NewNotificationService(notificationRepo, employeeRepo, emailService, hub, cfg.App.FrontendURL)
	authSvc := authService.NewAuthService(employeeRepo, jwtService, googleService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	cycleSvc := cycleService.NewCycleService(cycleRepo, assessmentRepo, nil)
	workflowSvc := workflowService.NewWorkflowService(
		assessmentRepo,
		employeeRepo,
		auditRepo,
		txManager,
		workflowService.Config{RequireAdminApproval: cfg.Workflow.RequireAdminApproval},
		nil,
	)
	dashboardSvc := dashboardService.NewDashboardService(
		dashboardRepo,
		assessmentRepo,
		employeeRepo,
		cycleRepo,
		engagementRepo,
		notifSvc,
		cfg.Workflow.RequireAdminApproval,
		nil,
	)
	noteSvc := noteService.NewNoteService(noteRepo, employeeRepo, nil)
	engagementSvc := engagementService.NewEngagementService(engagementRepo, notifSvc, nil)
	reportSvc := reportService.NewReportService(assessmentRepo, fileStorage, cfg.Workflow.RequireAdminApproval, nil)

	// Background reminder job for overdue assessments
	scheduler := cron.NewScheduler()
	reminderJobs := cron.NewReminderJobs(assessmentRepo, notifSvc)
	reminderJobs.RegisterJobs(scheduler, cfg.Workflow.ReminderInterval)
	scheduler.Start()
	defer scheduler.Stop()

	handlers := appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc, jwtService, googleService, cfg.GoogleEnabled()),
		Assessment:   appHTTP.NewAssessmentHandler(workflowSvc, notifSvc, cfg.Workflow.RequireAdminApproval),
		Cycle:        appHTTP.NewCycleHandler(cycleSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, jwtService, hub),
		Note:         appHTTP.NewNoteHandler(noteSvc),
		Engagement:   appHTTP.NewEngagementHandler(engagementSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppEnv:      cfg.App.Env,
		FrontendURL: cfg.App.FrontendURL,
	}, jwtService, handlers)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("EDGE backend listening on %s\n", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error:", err)
	}
}

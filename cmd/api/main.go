package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/treinasus/admin-api/internal/config"
	appointmentHandler "github.com/treinasus/admin-api/internal/handler/appointment"
	auditHandler "github.com/treinasus/admin-api/internal/handler/audit"
	authHandler "github.com/treinasus/admin-api/internal/handler/auth"
	classHandler "github.com/treinasus/admin-api/internal/handler/class"
	healthHandler "github.com/treinasus/admin-api/internal/handler/health"
	instructorHandler "github.com/treinasus/admin-api/internal/handler/instructor"
	messagingHandler "github.com/treinasus/admin-api/internal/handler/messaging"
	professionalHandler "github.com/treinasus/admin-api/internal/handler/professional"
	trainingHandler "github.com/treinasus/admin-api/internal/handler/training"
	unitHandler "github.com/treinasus/admin-api/internal/handler/unit"
	userHandler "github.com/treinasus/admin-api/internal/handler/user"
	"github.com/treinasus/admin-api/internal/middleware"
	"github.com/treinasus/admin-api/internal/repository/postgres"
	"github.com/treinasus/admin-api/internal/router"
	appointmentService "github.com/treinasus/admin-api/internal/service/appointment"
	auditService "github.com/treinasus/admin-api/internal/service/audit"
	authService "github.com/treinasus/admin-api/internal/service/auth"
	classService "github.com/treinasus/admin-api/internal/service/class"
	instructorService "github.com/treinasus/admin-api/internal/service/instructor"
	messagingService "github.com/treinasus/admin-api/internal/service/messaging"
	"github.com/treinasus/admin-api/internal/service/notifier"
	professionalService "github.com/treinasus/admin-api/internal/service/professional"
	trainingService "github.com/treinasus/admin-api/internal/service/training"
	unitService "github.com/treinasus/admin-api/internal/service/unit"
	userService "github.com/treinasus/admin-api/internal/service/user"
	"github.com/treinasus/admin-api/internal/status"
	"github.com/treinasus/admin-api/internal/whatsapp"
	"github.com/treinasus/admin-api/pkg/auth"
	"github.com/treinasus/admin-api/pkg/logger"
	messagingredis "github.com/treinasus/admin-api/pkg/messaging/redis"
	"github.com/treinasus/admin-api/pkg/metrics"
	"github.com/treinasus/admin-api/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := messagingredis.NewRedisBroker(messagingredis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &log.ZL)
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	ctx := context.Background()

	store, err := storage.NewS3Store(ctx, storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		AvatarBucket:    cfg.Storage.AvatarBucket,
		MaterialsBucket: cfg.Storage.MaterialsBucket,
		UsePathStyle:    cfg.Storage.UsePathStyle,
	})
	if err != nil {
		log.Fatal(err, "failed to initialize object storage")
	}

	registry, err := status.NewRegistry(status.NewFileStore(cfg.Statuses.Path))
	if err != nil {
		log.Fatal(err, "failed to initialize status registry")
	}

	templates, err := notifier.NewTemplateStore(cfg.Templates.Path)
	if err != nil {
		log.Fatal(err, "failed to initialize template store")
	}

	m := metrics.New("treinasus")

	middleware.RegisterValidations()

	// Repositories
	professionalRepo := postgres.NewProfessionalRepository(db)
	unitRepo := postgres.NewUnitRepository(db)
	instructorRepo := postgres.NewInstructorRepository(db)
	trainingRepo := postgres.NewTrainingRepository(db)
	classRepo := postgres.NewClassRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	communicationRepo := postgres.NewCommunicationRepository(db)
	conversationRepo := postgres.NewConversationRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	auditSvc := auditService.NewService(auditRepo, &log.ZL)
	waClient := whatsapp.NewClient(&log.ZL)
	gateway := messagingService.NewGateway(conversationRepo, waClient, cfg, broker)
	dispatcher := notifier.NewDispatcher(templates, gateway, communicationRepo, notifier.EmailConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	}, m, &log.ZL)

	professionalSvc := professionalService.NewService(professionalRepo, outboxRepo, store, auditSvc)
	unitSvc := unitService.NewService(unitRepo, auditSvc)
	instructorSvc := instructorService.NewService(instructorRepo, unitRepo, store, auditSvc)
	trainingSvc := trainingService.NewService(trainingRepo, instructorRepo, store, auditSvc)
	classSvc := classService.NewService(classRepo, trainingRepo, registry, auditSvc)
	appointmentSvc := appointmentService.NewService(appointmentRepo, professionalRepo, trainingRepo, classRepo, outboxRepo, dispatcher, auditSvc)
	userSvc := userService.NewService(userRepo, auditSvc)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(userRepo, jwtSvc, auditSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		&log.ZL,
		authMiddleware,
		authHandler.NewHandler(authSvc),
		healthHandler.NewHandler(db),
		professionalHandler.NewHandler(professionalSvc),
		unitHandler.NewHandler(unitSvc),
		instructorHandler.NewHandler(instructorSvc),
		trainingHandler.NewHandler(trainingSvc),
		classHandler.NewHandler(classSvc, registry),
		appointmentHandler.NewHandler(appointmentSvc),
		messagingHandler.NewHandler(gateway, waClient, cfg, templates),
		userHandler.NewHandler(userSvc),
		auditHandler.NewHandler(auditSvc),
		router.Config{
			RateLimitRPS:  50,
			RateBurst:     100,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "treinasus_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}

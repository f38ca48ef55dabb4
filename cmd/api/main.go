package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/creditbridge/scoring-service/internal/config"
	"github.com/creditbridge/scoring-service/internal/handler"
	"github.com/creditbridge/scoring-service/internal/integrations/rbi"
	"github.com/creditbridge/scoring-service/internal/middleware"
	"github.com/creditbridge/scoring-service/internal/ml"
	"github.com/creditbridge/scoring-service/internal/models"
	"github.com/creditbridge/scoring-service/internal/repository"
	"github.com/creditbridge/scoring-service/internal/service"
	"github.com/creditbridge/scoring-service/internal/storage"
	"github.com/creditbridge/scoring-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := repository.Open(repository.Driver(cfg.DBDriver), cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	repo := repository.NewRepository(db)

	// Model state lives in a file when MODEL_PATH is set, in the database
	// otherwise.
	var store ml.StateStore
	if cfg.ModelPath != "" {
		fsStore, err := storage.NewFSStore(cfg.ModelPath)
		if err != nil {
			logger.Fatalf("Failed to open model store: %v", err)
		}
		store = fsStore
	} else {
		store = repo.ModelState()
	}

	// Bootstrap the scoring engine: reuse persisted state, train otherwise.
	engine := ml.NewEngine(store, cfg.HMACSecret, logger)
	found, err := engine.LoadState()
	if err != nil {
		logger.Warnf("Failed to load persisted model state, retraining: %v", err)
	}
	if !found || err != nil {
		if _, err := engine.Train(cfg.TrainSamples, cfg.TrainSeed); err != nil {
			logger.Fatalf("Failed to train model: %v", err)
		}
	}

	// Optional collaborators
	var mail *email.Sender
	if cfg.SMTPHost != "" {
		mail = email.NewSender(cfg, logger)
	}
	var rates *rbi.Client
	if cfg.RBIURL != "" {
		rates = rbi.NewClient(cfg, logger)
	}

	// Initialize layers
	svc := service.NewService(repo, engine, cfg, logger, mail, rates)
	if err := svc.SeedEmployees(); err != nil {
		logger.Fatalf("Failed to seed employees: %v", err)
	}
	h := handler.NewHandler(svc, logger)

	// Scheduled retraining; each run draws a fresh population and swaps the
	// snapshot atomically under live traffic.
	if cfg.RetrainSchedule != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.RetrainSchedule, func() {
			seed := time.Now().Unix()
			if _, err := svc.Retrain(cfg.TrainSamples, seed); err != nil {
				logger.Errorf("Scheduled retrain failed: %v", err)
			}
		})
		if err != nil {
			logger.Fatalf("Invalid retrain schedule %q: %v", cfg.RetrainSchedule, err)
		}
		c.Start()
		defer c.Stop()
	}

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.Handle("/assessments",
		middleware.RequirePermission(models.PermCreate)(http.HandlerFunc(h.CreateAssessment))).Methods("POST")
	authRouter.Handle("/assessments",
		middleware.RequirePermission(models.PermViewAll)(http.HandlerFunc(h.ListAssessments))).Methods("GET")
	authRouter.HandleFunc("/assessments/{id:[0-9]+}", h.GetAssessment).Methods("GET")
	authRouter.Handle("/assessments/{id:[0-9]+}",
		middleware.RequirePermission(models.PermAll)(http.HandlerFunc(h.DeleteAssessment))).Methods("DELETE")
	authRouter.Handle("/assessments/{id:[0-9]+}/report",
		middleware.RequirePermission(models.PermExport)(http.HandlerFunc(h.DownloadReport))).Methods("GET")
	authRouter.Handle("/analytics",
		middleware.RequirePermission(models.PermAnalytics)(http.HandlerFunc(h.Analytics))).Methods("GET")
	authRouter.Handle("/admin/retrain",
		middleware.RequirePermission(models.PermAll)(http.HandlerFunc(h.Retrain))).Methods("POST")
	authRouter.HandleFunc("/repo-rate", h.RepoRate).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

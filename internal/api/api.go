package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"job-consolidator/internal/database"
	"job-consolidator/internal/handlers"
	"job-consolidator/internal/logger"
	"job-consolidator/internal/middleware"
	"job-consolidator/internal/models"
	"job-consolidator/internal/runstore"
	"job-consolidator/internal/utils"
)

// Api serves the read-only inspection endpoints over a unified database.
type Api struct {
	router      *mux.Router
	apiRouter   *mux.Router
	adminRouter *mux.Router
	Params      models.EnvParams
	handlers.ConsolidatorHandlers
	runs *runstore.BuntDBRunStore
	log  logger.Logger
}

func NewApi(p models.EnvParams, log logger.Logger) *Api {
	a := &Api{
		Params: p,
		log:    logger.Named(log, "api"),
	}
	a.ConsolidatorHandlers.Log = a.log
	return a
}

// Handler builds the router. The handler fields must be set.
func (a *Api) Handler() http.Handler {
	a.router = mux.NewRouter()
	a.router.Use(middleware.RequestLogger(a.log))
	a.SetupAllRoutes()
	return cors.AllowAll().Handler(a.router)
}

func (a *Api) SetupAllRoutes() {
	a.apiRouter = a.router.PathPrefix("/api").Subrouter()
	a.adminRouter = a.router.PathPrefix("/admin").Subrouter()
	if utils.JWTEnabled() {
		a.apiRouter.Use(middleware.AuthMiddleware)
	} else {
		a.log.Warn("JWT_TOKEN not set, /api routes are unauthenticated")
	}

	a.SetupAdminRoutes()
	a.SetupDataRoutes()
	a.SetupReportRoutes()
}

func (a *Api) SetupAdminRoutes() {
	a.adminRouter.HandleFunc("/health/API", a.Hello).Methods("GET")
	a.adminRouter.HandleFunc("/health/DB", a.DBPing).Methods("GET")
}

func (a *Api) SetupDataRoutes() {
	a.apiRouter.HandleFunc("/companies", a.ListCompanies).Methods("GET")
	a.apiRouter.HandleFunc("/companies/{id}", a.GetCompany).Methods("GET")
	a.apiRouter.HandleFunc("/jobs", a.ListJobs).Methods("GET")
	a.apiRouter.HandleFunc("/jobs/{id}", a.GetJob).Methods("GET")
	a.apiRouter.HandleFunc("/applications", a.ListApplications).Methods("GET")
	a.apiRouter.HandleFunc("/contacts", a.ListContacts).Methods("GET")
	a.apiRouter.HandleFunc("/emails", a.ListEmails).Methods("GET")
	a.apiRouter.HandleFunc("/metrics", a.ListMetrics).Methods("GET")
	a.apiRouter.HandleFunc("/profile", a.GetProfile).Methods("GET")
}

func (a *Api) SetupReportRoutes() {
	a.apiRouter.HandleFunc("/quality", a.GetQuality).Methods("GET")
	a.apiRouter.HandleFunc("/runs", a.ListRuns).Methods("GET")
	a.apiRouter.HandleFunc("/runs/{id}", a.GetRun).Methods("GET")
}

// SetupDatabases opens the unified database read-only and the run history.
// A missing run history only disables the /api/runs routes.
func (a *Api) SetupDatabases() error {
	a.log.Info("Opening unified database %s", a.Params.DbPath)
	db, err := database.OpenReadOnly(a.Params.DbPath)
	if err != nil {
		return fmt.Errorf("cannot open unified database: %w", err)
	}
	a.DB = db

	a.log.Info("Opening run history")
	runs, err := database.NewDBManager(a.Params.DbPath, a.log).InitRunStore(a.Params.RunStorePath)
	if err != nil {
		a.log.Warn("Run history unavailable: %v", err)
		return nil
	}
	a.runs = runs
	a.Runs = runs
	return nil
}

func printBanner(w io.Writer) {
	fmt.Fprint(w, models.StartupText)
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *Api) Start() error {
	printBanner(os.Stdout)

	utils.SetJWTSecret(a.Params.JWTToken)
	if err := a.SetupDatabases(); err != nil {
		return err
	}
	defer a.Stop()

	server := &http.Server{
		Addr:              ":" + a.Params.ApiPort,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	killSignal := make(chan os.Signal, 1)
	signal.Notify(killSignal, os.Interrupt, syscall.SIGTERM)
	serveErr := make(chan error, 1)

	go func() {
		a.log.Info("Starting API at endpoint: %s", a.Params.ApiPort)
		var err error
		if a.Params.CertFilePath != "" && a.Params.KeyFilePath != "" {
			err = server.ListenAndServeTLS(a.Params.CertFilePath, a.Params.KeyFilePath)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("cannot start API: %w", err)
		}
		return nil
	case <-killSignal:
	}
	a.log.Info("Received shutdown signal. Initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (a *Api) Stop() {
	a.log.Info("Graceful shutdown of services")
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.log.Warn("Couldn't close database connection: %v", err)
		}
	}
	if a.runs != nil {
		if err := a.runs.Close(); err != nil {
			a.log.Warn("Cannot close run history: %v", err)
		}
	}
	a.log.Info("API shutdown gracefully")
}

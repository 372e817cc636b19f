package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/techforus64-cmd/frontend-sub001/internal/audit"
	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
	"github.com/techforus64-cmd/frontend-sub001/internal/importer"
	"github.com/techforus64-cmd/frontend-sub001/internal/web/handlers"
	"github.com/techforus64-cmd/frontend-sub001/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	db         *sql.DB
	loader     *directory.Loader
	tracker    *audit.Tracker
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server instance
func NewServer(config *Config) (*Server, error) {
	// Initialize database connection
	db, err := sql.Open("postgres", config.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure database connection pool
	db.SetMaxOpenConns(config.Database.MaxConnections)
	db.SetMaxIdleConns(config.Database.MaxConnections / 2)
	db.SetConnMaxLifetime(time.Hour)

	// Test database connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	source := &importer.PostgresSource{DB: db}
	if err := source.InitSchema(); err != nil {
		return nil, err
	}

	tracker := audit.NewTracker(db)
	if config.Features.AuditEnabled {
		if err := tracker.InitSchema(); err != nil {
			return nil, err
		}
	}

	server := &Server{
		config:  config,
		db:      db,
		loader:  directory.NewLoader(source),
		tracker: tracker,
	}

	// Setup routes
	server.setupRoutes()

	// Create HTTP server
	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	// Convert config for handlers (to avoid import cycle)
	handlerConfig := &handlers.Config{}
	handlerConfig.Features.AuditEnabled = s.config.Features.AuditEnabled
	handlerConfig.Features.MetricsEnabled = s.config.Features.MetricsEnabled

	encodeHandler := &handlers.EncodeHandler{Loader: s.loader, Tracker: s.tracker, Config: handlerConfig}
	documentsHandler := &handlers.DocumentsHandler{Tracker: s.tracker, Config: handlerConfig}
	zonesHandler := &handlers.ZonesHandler{Loader: s.loader, Config: handlerConfig}
	apiHandler := &handlers.APIHandler{Loader: s.loader, Tracker: s.tracker, Config: handlerConfig}

	// API routes
	api := s.router.PathPrefix("/api").Subrouter()

	// Encoder endpoints
	api.HandleFunc("/encode", encodeHandler.Encode).Methods("POST")
	api.HandleFunc("/checksum", encodeHandler.Checksum).Methods("POST")
	api.HandleFunc("/directory/refresh", encodeHandler.RefreshDirectory).Methods("POST")

	// Document endpoints
	api.HandleFunc("/documents/validate", documentsHandler.ValidateDocument).Methods("POST")
	api.HandleFunc("/documents/{id}", documentsHandler.GetDocument).Methods("GET")
	api.HandleFunc("/documents/{id}/history", documentsHandler.GetHistory).Methods("GET")
	api.HandleFunc("/documents/{id}/updates", documentsHandler.AddUpdate).Methods("POST")

	// Zone picker endpoints
	api.HandleFunc("/zones", zonesHandler.ListZones).Methods("GET")
	api.HandleFunc("/zones/{zone}", zonesHandler.GetZone).Methods("GET")

	// Statistics and health endpoints
	api.HandleFunc("/stats", apiHandler.GetStats).Methods("GET")
	api.HandleFunc("/health", apiHandler.Health).Methods("GET")

	if s.config.Features.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// Apply middleware
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogging())

	if s.config.Auth.Enabled {
		// Apply authentication middleware to API routes only
		api.Use(middleware.APIKey(s.config.Auth.APIKey))
	}
}

// Start starts the web server
func (s *Server) Start() error {
	// Setup graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Start server in background
	go func() {
		fmt.Printf("Starting server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	fmt.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := s.httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Server shutdown error: %v\n", err)
	}

	// Close database connection
	if err := s.db.Close(); err != nil {
		fmt.Printf("Database close error: %v\n", err)
	}

	fmt.Println("Server stopped")
	return nil
}

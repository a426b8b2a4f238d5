package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/rpattn/panelql/internal/api"
	"github.com/rpattn/panelql/internal/config"
	"github.com/rpattn/panelql/internal/db"
	"github.com/rpattn/panelql/internal/domain"
	"github.com/rpattn/panelql/internal/export"
	"github.com/rpattn/panelql/internal/middleware"
	"github.com/rpattn/panelql/internal/repository"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories and services
	repo := repository.NewResourceRepository(conn.Pool)
	exporter := export.NewService(repo, cfg.Dialect)

	// Register resources
	resources := demoResources()
	listHandler := api.NewHTTPHandler(resources, repo, exporter, cfg.Dialect)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", corsHandler.Handler(middleware.LoggingMiddleware(listHandler)))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting listing server on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// demoResources describes the tables created by the bundled migrations.
// Deployments replace this with their own registrations.
func demoResources() []domain.Resource {
	users := domain.Resource{
		Name:       "users",
		Table:      "users",
		PrimaryKey: "id",
		Joins: map[string]string{
			"teams": "LEFT JOIN teams ON teams.id = users.team_id",
		},
		Fields: []domain.FieldDescriptor{
			{
				Name:   "id",
				Type:   domain.FieldTypeInteger,
				Column: "users.id",
			},
			{
				Name:            "name",
				Type:            domain.FieldTypeString,
				Column:          "users.name",
				Filterable:      true,
				Searchable:      true,
				DefaultOperator: "default",
			},
			{
				Name:            "email",
				Type:            domain.FieldTypeString,
				Column:          "users.email",
				Filterable:      true,
				Searchable:      true,
				DefaultOperator: "default",
			},
			{
				Name:       "age",
				Type:       domain.FieldTypeInteger,
				Column:     "users.age",
				Filterable: true,
			},
			{
				Name:       "active",
				Type:       domain.FieldTypeBoolean,
				Column:     "users.active",
				Filterable: true,
			},
			{
				Name:       "role",
				Type:       domain.FieldTypeEnum,
				Column:     "users.role",
				Filterable: true,
			},
			{
				Name:       "team",
				Type:       domain.FieldTypeBelongsTo,
				Column:     "users.team_id",
				Filterable: true,
				Searchable: true,
				SearchColumns: []domain.SearchColumn{
					{Column: "teams.name", Type: domain.FieldTypeString},
				},
				DefaultOperator: "default",
			},
			{
				Name:       "external_id",
				Type:       domain.FieldTypeUUID,
				Column:     "users.external_id",
				Filterable: true,
			},
		},
	}

	teams := domain.Resource{
		Name:       "teams",
		Table:      "teams",
		PrimaryKey: "id",
		Fields: []domain.FieldDescriptor{
			{
				Name:   "id",
				Type:   domain.FieldTypeInteger,
				Column: "teams.id",
			},
			{
				Name:            "name",
				Type:            domain.FieldTypeString,
				Column:          "teams.name",
				Filterable:      true,
				Searchable:      true,
				DefaultOperator: "default",
			},
		},
	}

	return []domain.Resource{users, teams}
}

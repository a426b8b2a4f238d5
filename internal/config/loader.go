package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/rpattn/panelql/internal/db"
	"github.com/rpattn/panelql/internal/domain"
)

// Config holds the full service configuration.
type Config struct {
	Database       db.Config
	Dialect        domain.Dialect
	ListenAddr     string
	MigrationsPath string
	AllowedOrigins []string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Database:       db.DefaultConfig(),
		Dialect:        domain.DialectPostgres,
		ListenAddr:     ":8080",
		MigrationsPath: "./migrations",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// Load reads config.yaml from the given path with environment overrides.
func Load(configPath string) (Config, error) {
	// Start with default
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()          // allow environment overrides
	v.SetEnvPrefix("PANELQL") // map env vars like PANELQL_HOST, PANELQL_PORT

	// Optional: Map nested keys to flat env vars
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("server.dialect")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	// Override defaults if values exist
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.ListenAddr = v.GetString("server.addr")
	}
	if v.IsSet("server.dialect") {
		cfg.Dialect = domain.Dialect(v.GetString("server.dialect"))
	}
	if v.IsSet("server.migrations") {
		cfg.MigrationsPath = v.GetString("server.migrations")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}

	return cfg, nil
}

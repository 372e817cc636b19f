package main

import (
	"fmt"
	"log"

	"github.com/techforus64-cmd/frontend-sub001/internal/config"
	"github.com/techforus64-cmd/frontend-sub001/internal/web"
)

func main() {
	// Load environment configuration
	config.LoadEnv()

	fmt.Println("=== Freight Vendor Serviceability API ===")

	webConfig := &web.Config{
		Server: web.ServerConfig{
			Port: config.GetEnvInt("WEB_PORT", 8080),
			Host: config.GetEnv("WEB_HOST", "0.0.0.0"),
		},
		Database: web.DatabaseConfig{
			URL: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
				config.GetEnv("DB_USER", "postgres"),
				config.GetEnv("DB_PASSWORD", "postgres"),
				config.GetEnv("DB_HOST", "localhost"),
				config.GetEnv("DB_PORT", "5432"),
				config.GetEnv("DB_NAME", "freight_vendor")),
			MaxConnections: config.GetEnvInt("DB_MAX_CONNECTIONS", 10),
		},
		Auth: web.AuthConfig{
			Enabled: config.GetEnvBool("AUTH_ENABLED", false),
			APIKey:  config.GetEnv("API_KEY", ""),
		},
		Features: web.FeatureConfig{
			AuditEnabled:   config.GetEnvBool("ENABLE_AUDIT", true),
			MetricsEnabled: config.GetEnvBool("ENABLE_METRICS", true),
		},
	}

	server, err := web.NewServer(webConfig)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	fmt.Printf("Server: http://%s:%d\n", webConfig.Server.Host, webConfig.Server.Port)
	fmt.Println("\nFeatures enabled:")
	fmt.Printf("  • Audit trail: %v\n", webConfig.Features.AuditEnabled)
	fmt.Printf("  • Metrics: %v\n", webConfig.Features.MetricsEnabled)
	fmt.Println()

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// cmd/api/main.go
// Main entry point for the recognition & consent engine
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/theloveculture/tlc-backend/internal/audit"
	"github.com/theloveculture/tlc-backend/internal/auth"
	"github.com/theloveculture/tlc-backend/internal/common/database"
	"github.com/theloveculture/tlc-backend/internal/config"
	"github.com/theloveculture/tlc-backend/internal/messaging"
	"github.com/theloveculture/tlc-backend/internal/policy"
	"github.com/theloveculture/tlc-backend/internal/recognition"
	"github.com/theloveculture/tlc-backend/internal/requests"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting TLC Recognition & Consent Engine")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("📋 Step 2: Loading configuration...")
	cfg := config.Load()

	// 3. Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 4. Connect to PostgreSQL
	log.Println("🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 5. Connect to Redis (optional)
	log.Println("📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without event publishing", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 6. Run database migrations
	log.Println("🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations:", err)
	}
	log.Println("✅ Database migrations completed")

	// 7. Wire up components
	log.Println("🧩 Step 6: Wiring components...")

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	// Audit emitter with the member-facing event stream
	hub := audit.NewHub()
	go hub.Run()
	emitter := audit.NewEmitter(redisClient, cfg.AuditChannel, hub)
	auditHandler := audit.NewHandler(hub)

	// Role & policy model
	directory := policy.NewPostgresDirectory(db, cfg.DefaultDailyRequestLimit)
	policyHandler := policy.NewHandler(directory)

	// Transfer eligibility resolver
	ledger := recognition.NewLogLedger()
	recognitionHandler := recognition.NewHandler(directory, ledger, emitter, cfg.PlatformAccountRef)

	// Request lifecycle manager
	requestRepo := requests.NewPostgresRepository(db)
	requestService := requests.NewService(requestRepo, directory, emitter)
	requestHandler := requests.NewHandler(requestService)

	// Consent gate
	var moderator messaging.Moderator
	switch cfg.ModerationProvider {
	case "http":
		moderator = messaging.NewHTTPModerator(cfg.ModerationURL, cfg.ModerationTimeout)
		log.Println("   ✅ Using HTTP moderation provider")
	default:
		moderator = messaging.NewMockModerator()
		log.Println("   ⚠️  Using mock moderation provider (development mode)")
	}
	messageRepo := messaging.NewPostgresRepository(db)
	messageService := messaging.NewService(messageRepo, requestRepo, directory, moderator, emitter)
	messageHandler := messaging.NewHandler(messageService)

	// 8. Routes
	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	policy.RegisterRoutes(router, policyHandler, authMiddleware)
	recognition.RegisterRoutes(router, recognitionHandler, authMiddleware)
	requests.RegisterRoutes(router, requestHandler, authMiddleware)
	messaging.RegisterRoutes(router, messageHandler, authMiddleware)
	audit.RegisterRoutes(router, auditHandler, authMiddleware)

	// 9. Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on %s", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server failed:", err)
		}
	}()

	// 10. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️  Shutdown signal received...")

	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		// Members are owned by the identity subsystem; this table is the
		// engine's read model of it.
		`CREATE TABLE IF NOT EXISTS members (
            id VARCHAR(64) PRIMARY KEY,
            display_name VARCHAR(255) NOT NULL,
            role VARCHAR(32) NOT NULL,
            receptive BOOLEAN DEFAULT FALSE,
            verified BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS privacy_settings (
            member_id VARCHAR(64) PRIMARY KEY REFERENCES members(id),
            allow_dms BOOLEAN DEFAULT TRUE,
            allow_connection_requests BOOLEAN DEFAULT TRUE,
            daily_request_limit INTEGER DEFAULT 5,
            visible_to_roles TEXT[] DEFAULT '{}',
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS interaction_requests (
            id VARCHAR(36) PRIMARY KEY,
            sender_id VARCHAR(64) NOT NULL REFERENCES members(id),
            receiver_id VARCHAR(64) NOT NULL REFERENCES members(id),
            kind VARCHAR(16) NOT NULL,
            purpose VARCHAR(32),
            message TEXT,
            goals TEXT,
            background TEXT,
            status VARCHAR(16) NOT NULL DEFAULT 'pending',
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		// One non-terminal request per ordered (sender, receiver, kind) pair.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_requests_one_pending
            ON interaction_requests (sender_id, receiver_id, kind)
            WHERE status = 'pending'`,

		`CREATE INDEX IF NOT EXISTS idx_requests_sender_created
            ON interaction_requests (sender_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS messages (
            id VARCHAR(36) PRIMARY KEY,
            seq BIGSERIAL,
            sender_id VARCHAR(64) NOT NULL REFERENCES members(id),
            receiver_id VARCHAR(64) NOT NULL REFERENCES members(id),
            content TEXT NOT NULL,
            is_flagged BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE INDEX IF NOT EXISTS idx_messages_pair
            ON messages (sender_id, receiver_id, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

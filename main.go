package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	apimod "github.com/example/todo-app/modules/api"
	"github.com/example/todo-app/modules/auth"
	cachemod "github.com/example/todo-app/modules/cache"
	historymod "github.com/example/todo-app/modules/history"
	storagemod "github.com/example/todo-app/modules/storage"
	taskmod "github.com/example/todo-app/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	httpPort := getEnvInt("HTTP_PORT", 8000)
	dbPath := getEnv("DB_PATH", "./todo_app.db")
	postgresDSN := getEnv("DATABASE_URL", "")
	redisAddr := getEnv("REDIS_ADDR", "")
	statsTTL := getEnvDuration("STATS_CACHE_TTL", 5*time.Minute)
	sessionSecret := getEnv("SESSION_SECRET_KEY", "")

	log.Println("=== todo-app backend ===")
	log.Printf("HTTP Port: %d", httpPort)
	if postgresDSN != "" {
		log.Println("Database: postgres")
	} else {
		log.Printf("Database: %s", dbPath)
	}
	if redisAddr != "" {
		log.Printf("Redis: %s (stats TTL: %s)", redisAddr, statsTTL)
	}

	sessionConfig := auth.DefaultSessionConfig()
	if sessionSecret != "" {
		sessionConfig.SecretKey = sessionSecret
	}

	// Create modules
	storageModule := storagemod.NewModule(storagemod.Config{
		SQLitePath:  dbPath,
		PostgresDSN: postgresDSN,
	})
	taskModule := taskmod.NewModule(storageModule)
	historyModule := historymod.NewModule(storageModule)
	authModule := auth.NewModule(storageModule, sessionConfig)
	apiModule := apimod.NewModule(httpPort, storageModule, taskModule, historyModule)

	var cacheModule *cachemod.Module
	if redisAddr != "" {
		cacheModule = cachemod.NewModule(redisAddr, "todo:", statsTTL)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules, independent modules first
	app.Register(storageModule)
	if cacheModule != nil {
		app.Register(cacheModule)
	}
	app.Register(taskModule)
	app.Register(historyModule)
	app.Register(authModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wire cross-module hooks after start
	if cacheModule != nil {
		historyModule.Service().SetCache(cacheModule.Cache())
	}
	taskModule.Service().SetInvalidator(historyModule.Service())

	printStartupInfo(httpPort)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d/api/v1):", port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  GET    /health                    - Health check")
	log.Println("  POST   /auth/signup               - Create an account")
	log.Println("  POST   /auth/login                - Login (sets session cookie)")
	log.Println("  POST   /auth/logout               - Logout (clears session cookie)")
	log.Println("")
	log.Println("  Protected Endpoints (require session cookie):")
	log.Println("  GET    /tasks                     - List tasks")
	log.Println("  POST   /tasks                     - Create a task")
	log.Println("  GET    /tasks/:id                 - Get a task")
	log.Println("  PUT    /tasks/:id                 - Update a task")
	log.Println("  DELETE /tasks/:id                 - Delete a task")
	log.Println("  PATCH  /tasks/:id/complete        - Mark task completed")
	log.Println("  PATCH  /tasks/:id/incomplete      - Mark task incomplete")
	log.Println("  GET    /history                   - Paginated task history")
	log.Println("  GET    /stats/weekly              - Weekly statistics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokoshop/internal/config"
	"tokoshop/internal/database"
	"tokoshop/internal/events"
	"tokoshop/internal/repositories"
	"tokoshop/internal/server"
	"tokoshop/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const denylistPurgeInterval = time.Hour

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// --- Initialize Database ---
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.SkipDB {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// --- Initialize Token Denylist ---
	denylist, closeDenylist, err := openDenylist(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeDenylist()

	deps := server.Deps{Config: cfg, DB: db, Denylist: denylist}

	// --- Initialize RabbitMQ Client ---
	if cfg.SkipMQ {
		log.Println("SKIP_MQ set, order events are disabled")
	} else {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		deps.Publisher = mqClient

		// This consumer turns order events into customer notifications.
		log.Println("Starting RabbitMQ consumer for orders...")
		if err := mqClient.ConsumeOrderEvents(events.HandleDelivery); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	app := server.New(deps)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

// openDenylist returns the Redis denylist, or the database table when Redis is skipped.
func openDenylist(ctx context.Context, cfg *config.Config, db *gorm.DB) (repositories.TokenDenylist, func(), error) {
	if cfg.SkipRedis {
		log.Println("SKIP_REDIS set, keeping revoked tokens in the database")
		denylist := repositories.NewGORMTokenDenylist(db)
		go purgeRevokedTokens(ctx, denylist)
		return denylist, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	log.Printf("Connected to Redis at %s", cfg.RedisAddr)
	return repositories.NewRedisTokenDenylist(client), func() { client.Close() }, nil
}

func purgeRevokedTokens(ctx context.Context, denylist *repositories.GORMTokenDenylist) {
	ticker := time.NewTicker(denylistPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := denylist.PurgeExpired(ctx)
			if err != nil {
				log.Printf("Warning: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Purged %d expired revoked tokens", n)
			}
		}
	}
}

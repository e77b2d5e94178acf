// Package web wires the storefront web command: configuration, storage,
// identity, events and the HTTP server.
package web

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/karinashop/storefront/internal/auth"
	"github.com/karinashop/storefront/internal/events"
	"github.com/karinashop/storefront/internal/platform/config"
	"github.com/karinashop/storefront/internal/platform/otel"
	"github.com/karinashop/storefront/internal/storage/sqlite"
	"github.com/karinashop/storefront/internal/storefront"
	"github.com/karinashop/storefront/internal/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr      string        `env:"STOREFRONT_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath        string        `env:"STOREFRONT_DB_PATH" envDefault:"storefront.db"`
	SessionSecret string        `env:"STOREFRONT_SESSION_SECRET"`
	SessionTTL    time.Duration `env:"STOREFRONT_SESSION_TTL" envDefault:"24h"`
	AMQPURL       string        `env:"STOREFRONT_AMQP_URL"`
	AMQPQueue     string        `env:"STOREFRONT_AMQP_QUEUE" envDefault:"order.placed"`
	OTELEndpoint  string        `env:"STOREFRONT_OTEL_ENDPOINT"`
	OTELDisabled  bool          `env:"STOREFRONT_OTEL_DISABLED"`
}

// ParseConfig loads environment configuration and applies flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	fs.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "AMQP broker URL (empty disables order events)")
	fs.StringVar(&cfg.AMQPQueue, "amqp-queue", cfg.AMQPQueue, "AMQP queue for placed orders")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("STOREFRONT_SESSION_SECRET is required")
	}
	return cfg, nil
}

// Run starts the storefront web server and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, otel.Config{
		ServiceName: "storefront-web",
		Endpoint:    cfg.OTELEndpoint,
		Disabled:    cfg.OTELDisabled,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("shutdown tracing", slog.String("error", err.Error()))
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	identity, err := auth.NewService(store, []byte(cfg.SessionSecret),
		auth.WithSessionTTL(cfg.SessionTTL))
	if err != nil {
		return fmt.Errorf("init identity: %w", err)
	}

	var opts []storefront.Option
	if cfg.AMQPURL != "" {
		publisher, err := events.Dial(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("dial broker: %w", err)
		}
		defer publisher.Close()
		opts = append(opts, storefront.WithPublisher(publisher))
	}
	shop := storefront.NewService(store, opts...)

	server, err := web.NewServer(web.Config{
		Addr:       cfg.HTTPAddr,
		Storefront: shop,
		Identity:   identity,
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}

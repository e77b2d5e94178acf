// Package seed loads a demo catalog and accounts into a storefront database.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/karinashop/storefront/internal/platform/config"
	"github.com/karinashop/storefront/internal/storage"
	"github.com/karinashop/storefront/internal/storage/sqlite"
)

// Config holds the seed command configuration.
type Config struct {
	DBPath        string `env:"STOREFRONT_DB_PATH" envDefault:"storefront.db"`
	AdminEmail    string `env:"STOREFRONT_ADMIN_EMAIL" envDefault:"admin@storefront.local"`
	AdminPassword string `env:"STOREFRONT_ADMIN_PASSWORD" envDefault:"admin"`
}

// ParseConfig loads environment configuration and applies flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "admin account email")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "admin account password")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// demoItems is the starter catalog. Prices are integer currency units.
var demoItems = []storage.Item{
	{Name: "Electric Kettle", Category: "kitchen", Price: 700, Description: "1.7 litre kettle with auto shut-off."},
	{Name: "Ceramic Mug", Category: "kitchen", Price: 300, Description: "Plain white mug, dishwasher safe."},
	{Name: "Chef Knife", Category: "kitchen", Price: 2200, Description: "20 cm stainless steel blade."},
	{Name: "Desk Lamp", Category: "home", Price: 2500, Description: "Adjustable arm, warm LED."},
	{Name: "Wool Blanket", Category: "home", Price: 3900, Description: "Queen size, machine washable."},
	{Name: "Wall Clock", Category: "home", Price: 1500, Description: "Silent sweep movement."},
	{Name: "Running Shoes", Category: "sport", Price: 5400, Description: "Lightweight trainers, sizes 36-46."},
	{Name: "Yoga Mat", Category: "sport", Price: 1800, Description: "6 mm non-slip mat."},
	{Name: "Water Bottle", Category: "sport", Price: 900, Description: "750 ml insulated bottle."},
	{Name: "Notebook", Category: "office", Price: 400, Description: "A5 dotted, 120 pages."},
	{Name: "Fountain Pen", Category: "office", Price: 2100, Description: "Fine nib with converter."},
	{Name: "Desk Organizer", Category: "office", Price: 1300, Description: "Bamboo, five compartments."},
}

// Run seeds the database at cfg.DBPath. Existing accounts and previously
// seeded catalogs are left untouched.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	if err := seedAdmin(ctx, store, cfg, out); err != nil {
		return err
	}
	return seedCatalog(ctx, store, out)
}

func seedAdmin(ctx context.Context, store storage.Store, cfg Config, out io.Writer) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = store.CreateUser(ctx, storage.User{
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Roles:        []string{storage.RoleUser, storage.RoleAdmin},
		CreatedAt:    time.Now().UTC(),
	})
	switch {
	case err == nil:
		fmt.Fprintf(out, "created admin account %s\n", cfg.AdminEmail)
	case errors.Is(err, storage.ErrAlreadyExists):
		fmt.Fprintf(out, "admin account %s already exists\n", cfg.AdminEmail)
	default:
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func seedCatalog(ctx context.Context, store storage.Store, out io.Writer) error {
	existing, err := store.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	if len(existing) > 0 {
		fmt.Fprintf(out, "catalog already has %d items, skipping\n", len(existing))
		return nil
	}

	now := time.Now().UTC()
	for i, item := range demoItems {
		// Stagger creation times so the home page "newest" strip has an order.
		item.CreatedAt = now.Add(time.Duration(i-len(demoItems)) * time.Minute)
		if _, err := store.CreateItem(ctx, item); err != nil {
			return fmt.Errorf("create item %q: %w", item.Name, err)
		}
	}
	fmt.Fprintf(out, "seeded %d catalog items\n", len(demoItems))
	return nil
}

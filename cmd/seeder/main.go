package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/foxxcyber/vitrine/internal/config"
	"github.com/foxxcyber/vitrine/internal/contracts"
	"github.com/foxxcyber/vitrine/internal/database"
	"github.com/foxxcyber/vitrine/internal/logging"
	"github.com/foxxcyber/vitrine/internal/models"
	"github.com/foxxcyber/vitrine/internal/services"
)

// seedFile is the layout of the YAML seed. Properties are kept as raw maps so
// they go through the same JSON schema as the API.
type seedFile struct {
	Tenants          []seedTenant  `yaml:"tenants"`
	PlatformSections []seedSection `yaml:"platform_sections"`
}

type seedTenant struct {
	Name       string                   `yaml:"name"`
	Slug       string                   `yaml:"slug"`
	Users      []seedUser               `yaml:"users"`
	Properties []map[string]interface{} `yaml:"properties"`
	Sections   []seedSection            `yaml:"sections"`
}

type seedUser struct {
	Email    string      `yaml:"email"`
	Name     string      `yaml:"name"`
	Password string      `yaml:"password"`
	Role     models.Role `yaml:"role"`
}

type seedFilter struct {
	Type  models.SectionFilterType `yaml:"type"`
	Field *string                  `yaml:"field"`
	Value string                   `yaml:"value"`
}

type seedSection struct {
	Title    string       `yaml:"title"`
	Filters  []seedFilter `yaml:"filters"`
	MaxItems int          `yaml:"max_items"`
	IsActive *bool        `yaml:"is_active"`
}

func (s seedSection) request() *models.SaveSectionRequest {
	req := &models.SaveSectionRequest{
		Title:    s.Title,
		MaxItems: s.MaxItems,
		IsActive: s.IsActive,
	}
	if req.MaxItems == 0 {
		req.MaxItems = services.DefaultSectionItems
	}
	for _, f := range s.Filters {
		req.Filters = append(req.Filters, models.SectionFilter{Type: f.Type, Field: f.Field, Value: f.Value})
	}
	return req
}

type counts struct {
	tenants, users, properties, sections, skipped int
}

func main() {
	file := flag.String("file", "seed.yaml", "YAML seed file")
	dryRun := flag.Bool("dry-run", false, "Validate the seed file without writing to database")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.New(logging.Config{Format: "color", Level: logging.ParseLevel(cfg.LogLevel)})
	slog.SetDefault(logger)

	seed, err := readSeed(*file)
	if err != nil {
		logger.Error("failed to read seed file", slog.String("file", *file), logging.Err(err))
		os.Exit(1)
	}

	if err := validateSeed(seed); err != nil {
		logger.Error("seed file is invalid", logging.Err(err))
		os.Exit(1)
	}

	if *dryRun {
		logger.Info("DRY RUN - seed file is valid, no changes made", slog.Int("tenants", len(seed.Tenants)))
		return
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", logging.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logger.Error("failed to run migrations", logging.Err(err))
		os.Exit(1)
	}

	ctx := context.Background()
	catalog := services.NewCatalogService(db, nil, logger)
	sectionService := services.NewSectionService(db, catalog, logger)

	var n counts
	for _, t := range seed.Tenants {
		if err := seedTenantData(ctx, db, sectionService, t, &n, logger); err != nil {
			logger.Error("failed to seed tenant", slog.String("tenant", t.Slug), logging.Err(err))
			os.Exit(1)
		}
	}
	if err := seedSections(ctx, db, sectionService, nil, seed.PlatformSections, &n); err != nil {
		logger.Error("failed to seed platform sections", logging.Err(err))
		os.Exit(1)
	}

	logger.Info("seed complete",
		slog.Int("tenants", n.tenants),
		slog.Int("users", n.users),
		slog.Int("properties", n.properties),
		slog.Int("sections", n.sections),
		slog.Int("skipped", n.skipped),
	)
}

func readSeed(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &seed, nil
}

// validateSeed checks every record against the API schemas before anything is written
func validateSeed(seed *seedFile) error {
	check := func(schema, where string, v interface{}) error {
		body, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if err := contracts.Validate(schema, body); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		return nil
	}

	for i, t := range seed.Tenants {
		where := fmt.Sprintf("tenants[%d]", i)
		if err := check(contracts.Tenant, where, models.CreateTenantRequest{Name: t.Name, Slug: t.Slug}); err != nil {
			return err
		}
		if t.Slug == "" {
			return fmt.Errorf("%s: slug is required", where)
		}
		for j, u := range t.Users {
			if u.Email == "" || len(u.Password) < 8 || !u.Role.Valid() || u.Role == models.RoleSuperAdmin {
				return fmt.Errorf("%s.users[%d]: email, password of 8+ characters and a tenant role are required", where, j)
			}
		}
		for j, p := range t.Properties {
			if err := check(contracts.Property, fmt.Sprintf("%s.properties[%d]", where, j), p); err != nil {
				return err
			}
		}
		for j, s := range t.Sections {
			if err := check(contracts.HomeSection, fmt.Sprintf("%s.sections[%d]", where, j), s.request()); err != nil {
				return err
			}
		}
	}
	for j, s := range seed.PlatformSections {
		if err := check(contracts.HomeSection, fmt.Sprintf("platform_sections[%d]", j), s.request()); err != nil {
			return err
		}
	}
	return nil
}

// seedTenantData is idempotent: existing tenants, users and slugs are skipped
func seedTenantData(ctx context.Context, db *database.DB, sectionService *services.SectionService, t seedTenant, n *counts, logger *slog.Logger) error {
	tenant, err := db.CreateTenant(ctx, t.Name, t.Slug)
	switch {
	case errors.Is(err, database.ErrTenantSlugExists):
		tenant, err = db.GetTenantBySlug(ctx, t.Slug)
		if err != nil {
			return err
		}
		n.skipped++
	case err != nil:
		return err
	default:
		n.tenants++
	}
	tenantID := tenant.ID
	logger.Info("seeding tenant", slog.String("slug", tenant.Slug))

	// Listings are assigned to the first broker, or the first user at all
	var ownerID, brokerID *string
	for _, u := range t.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user, err := db.CreateUser(ctx, &models.CreateUserRequest{
			Email:    u.Email,
			Name:     u.Name,
			Role:     u.Role,
			TenantID: &tenantID,
		}, string(hash))
		if errors.Is(err, database.ErrEmailExists) {
			user, err = db.GetUserByEmail(ctx, u.Email)
			n.skipped++
		} else if err == nil {
			n.users++
		}
		if err != nil {
			return err
		}
		id := user.ID
		if ownerID == nil {
			ownerID = &id
		}
		if brokerID == nil && user.Role == models.RoleCorretor {
			brokerID = &id
		}
	}
	if brokerID != nil {
		ownerID = brokerID
	}

	for _, raw := range t.Properties {
		body, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		var req models.CreatePropertyRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return err
		}

		_, err = db.CreateProperty(ctx, &tenantID, ownerID, &req)
		if errors.Is(err, database.ErrSlugExists) {
			n.skipped++
			continue
		}
		if err != nil {
			return err
		}
		n.properties++
	}

	return seedSections(ctx, db, sectionService, &tenantID, t.Sections, n)
}

func seedSections(ctx context.Context, db *database.DB, sectionService *services.SectionService, tenantID *string, list []seedSection, n *counts) error {
	existing, err := db.ListSections(ctx, tenantID)
	if err != nil {
		return err
	}
	titles := make(map[string]bool, len(existing))
	for _, s := range existing {
		titles[s.Title] = true
	}

	for _, s := range list {
		if titles[s.Title] {
			n.skipped++
			continue
		}
		if _, err := sectionService.Create(ctx, tenantID, s.request()); err != nil {
			return fmt.Errorf("section %q: %w", s.Title, err)
		}
		n.sections++
	}
	return nil
}

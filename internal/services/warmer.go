package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/foxxcyber/vitrine/internal/logging"
	"github.com/foxxcyber/vitrine/internal/models"
)

// TenantLister lists the tenants whose storefronts are warmed
type TenantLister interface {
	ListTenants(ctx context.Context, enabledOnly bool) ([]*models.Tenant, error)
}

// PoolRefresher reloads a pool into the cache
type PoolRefresher interface {
	Refresh(ctx context.Context, scope models.PropertyScope) error
}

// CacheWarmer periodically reloads the public pools of the platform and of
// every enabled tenant so visitors rarely hit a cold cache
type CacheWarmer struct {
	tenants TenantLister
	pools   PoolRefresher
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewCacheWarmer(tenants TenantLister, pools PoolRefresher, logger *slog.Logger) *CacheWarmer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheWarmer{
		tenants: tenants,
		pools:   pools,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start schedules WarmAll on the cron expression spec
func (w *CacheWarmer) Start(ctx context.Context, spec string) error {
	_, err := w.cron.AddFunc(spec, func() {
		if _, err := w.WarmAll(ctx); err != nil {
			w.logger.Warn("cache warm run failed", logging.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	w.logger.Info("cache warmer scheduled", slog.String("cron", spec))
	w.cron.Start()
	return nil
}

// Stop waits for a running job to finish
func (w *CacheWarmer) Stop() {
	<-w.cron.Stop().Done()
}

// WarmAll refreshes the platform pool and each enabled tenant's pool. It
// keeps going past individual failures and returns how many pools were loaded.
func (w *CacheWarmer) WarmAll(ctx context.Context) (int, error) {
	tenants, err := w.tenants.ListTenants(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	scopes := []models.PropertyScope{{Status: models.StatusAvailable}}
	for _, t := range tenants {
		id := t.ID
		scopes = append(scopes, models.PropertyScope{Status: models.StatusAvailable, TenantID: &id})
	}

	warmed := 0
	for _, scope := range scopes {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if err := w.pools.Refresh(ctx, scope); err != nil {
			w.logger.Warn("failed to warm pool", slog.String("scope", scope.Key()), logging.Err(err))
			continue
		}
		warmed++
	}

	w.logger.Debug("cache warm finished", slog.Int("pools", warmed), slog.Int("scopes", len(scopes)))
	return warmed, nil
}

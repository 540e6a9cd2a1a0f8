package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// SeedDashboard creates a starter dashboard for identity filled with
// DefaultSeedWidgets. Widgets whose configuration does not match their kind
// are skipped and reported in the joined error.
func SeedDashboard(ctx context.Context, service *Service, identity Identity) (Dashboard, error) {
	return SeedDashboardWith(ctx, service, identity, DefaultSeedWidgets())
}

// SeedDashboardWith creates a dashboard for identity holding seeds.
func SeedDashboardWith(ctx context.Context, service *Service, identity Identity, seeds []SeedWidget) (Dashboard, error) {
	if service == nil {
		return Dashboard{}, errors.New("dashboard: service is required to seed a dashboard")
	}
	dash, err := service.CreateDashboard(ctx, identity)
	if err != nil {
		return Dashboard{}, err
	}
	var seedErr error
	widgets := make([]Widget, 0, len(seeds))
	for idx, seed := range seeds {
		cfg := seed.Config
		if cfg == nil {
			cfg = DefaultConfig(seed.Kind)
		}
		if !seed.Kind.Known() {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed widget %d: %w: %q", idx, ErrUnknownWidgetKind, seed.Kind))
			continue
		}
		if cfg.Kind() != seed.Kind {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed widget %d: %w", idx, ErrConfigKindMismatch))
			continue
		}
		widgets = append(widgets, Widget{
			ID:     newTempID(),
			Kind:   seed.Kind,
			Grid:   seed.Grid.Normalize(),
			Config: cfg,
		})
	}
	if _, err := service.SaveLayout(ctx, identity, dash.ID, widgets); err != nil {
		seedErr = errors.Join(seedErr, err)
	}
	return dash, seedErr
}

package httpapi

import (
	"context"
	"testing"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandExecutorSeedsNewDashboards(t *testing.T) {
	ctx := context.Background()
	service := dashboard.NewService(dashboard.Options{Store: dashboard.NewInMemoryStore()})
	executor := NewCommandExecutor(service, dashboard.NewWorkspaceManager(service), nil)
	executor.Seed = commands.NewSeedDashboardCommand(service, nil)

	result, err := executor.CreateDashboard(ctx, owner)
	require.NoError(t, err)
	require.True(t, result.Success)

	view, err := service.LoadDashboard(ctx, owner, result.DashboardID)
	require.NoError(t, err)
	assert.Len(t, view.Widgets, len(dashboard.DefaultSeedWidgets()))

	result, err = executor.CreateDashboard(ctx, dashboard.Identity{})
	assert.ErrorIs(t, err, dashboard.ErrAuthenticationRequired)
	assert.False(t, result.Success)
	assert.Equal(t, "Authentication required.", result.Error)
}

func TestCommandExecutorCreatesEmptyDashboardsByDefault(t *testing.T) {
	ctx := context.Background()
	service := dashboard.NewService(dashboard.Options{Store: dashboard.NewInMemoryStore()})
	executor := NewCommandExecutor(service, dashboard.NewWorkspaceManager(service), nil)

	result, err := executor.CreateDashboard(ctx, owner)
	require.NoError(t, err)

	view, err := service.LoadDashboard(ctx, owner, result.DashboardID)
	require.NoError(t, err)
	assert.Empty(t, view.Widgets)
}

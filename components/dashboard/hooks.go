package dashboard

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// RefreshHooks fans a widget event out to several hooks. Every hook runs even
// when an earlier one fails; the failures are joined.
type RefreshHooks []RefreshHook

// WidgetUpdated implements RefreshHook.
func (hooks RefreshHooks) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	var errs error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.WidgetUpdated(ctx, event); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// LoggingHook writes every widget event to a zap logger at debug level.
type LoggingHook struct {
	Logger *zap.Logger
}

// WidgetUpdated implements RefreshHook.
func (h LoggingHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	if h.Logger == nil {
		return nil
	}
	h.Logger.Debug("widget event",
		zap.String("reason", event.Reason),
		zap.String("dashboard_id", event.DashboardID),
		zap.String("widget_id", event.WidgetID),
		zap.Strings("order", event.Order),
	)
	return nil
}

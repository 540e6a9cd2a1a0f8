package commands

import dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"

// Telemetry is the sink commands report to. It is the service's own
// telemetry contract, so one ZapTelemetry can serve both.
type Telemetry = dashboard.Telemetry

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return dashboard.NopTelemetry{}
	}
	return t
}

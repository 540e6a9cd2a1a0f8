package dashboard

import "errors"

var (
	// ErrAuthenticationRequired is returned when the caller has no valid session.
	ErrAuthenticationRequired = errors.New("dashboard: authentication required")
	// ErrNotFound is returned for dashboards that do not exist or belong to someone else.
	ErrNotFound = errors.New("dashboard: not found")
	// ErrMalformedConfig marks a configuration that does not parse or fails its schema.
	ErrMalformedConfig = errors.New("dashboard: malformed widget configuration")
	// ErrConfigKindMismatch marks a configuration whose type tag disagrees with the widget type.
	ErrConfigKindMismatch = errors.New("dashboard: configuration type does not match widget type")
	// ErrUnknownWidgetKind is returned when a widget type is outside the supported set.
	ErrUnknownWidgetKind = errors.New("dashboard: unknown widget type")
	// ErrStorage wraps failures of the persistent store.
	ErrStorage = errors.New("dashboard: storage failure")
	// ErrEditorClosed is returned when saving a configuration with no widget open.
	ErrEditorClosed = errors.New("dashboard: configuration editor is closed")

	errMissingStore = errors.New("dashboard: store not configured")
)

package logging

// Standardized attribute keys shared across components.
const (
	// FieldComponent identifies the subsystem emitting the record.
	FieldComponent = "component"
	// FieldEventType is a stable machine-readable event identifier.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step when an operation fails.
	FieldErrorHint = "error_hint"
	// FieldRunID tags every record of one daemon run.
	FieldRunID = "run_id"
)

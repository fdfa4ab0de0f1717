package log

// Field names shared by log records.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldPath      = "path"
	FieldCount     = "count"
	FieldIndex     = "index"
	FieldLine      = "line"
	FieldCommand   = "command"
)

// Component names passed to WithComponent.
const (
	ComponentApp     = "app"
	ComponentSession = "session"
	ComponentStore   = "store"
)

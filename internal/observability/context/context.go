// Package context carries scan metadata through context.Context for logging.
package context

import "context"

// ContextKey is the key type for values stored by this package.
type ContextKey string

const (
	// OperationKey holds the command being run (scan, init, validate)
	OperationKey ContextKey = "operation"
	// ComponentKey holds the component doing the work
	ComponentKey ContextKey = "component"
	// FilePathKey holds the file currently being scanned
	FilePathKey ContextKey = "file_path"
	// SourceTypeKey holds the declared language of the scan
	SourceTypeKey ContextKey = "source_type"
	// PassKey holds the scan pass (index, match, scan)
	PassKey ContextKey = "pass"
)

// WithOperation adds an operation name to the context.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// WithComponent adds a component name to the context.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, ComponentKey, component)
}

// WithFilePath adds the file being scanned to the context.
func WithFilePath(ctx context.Context, filePath string) context.Context {
	return context.WithValue(ctx, FilePathKey, filePath)
}

// WithSourceType adds the declared source type to the context.
func WithSourceType(ctx context.Context, sourceType string) context.Context {
	return context.WithValue(ctx, SourceTypeKey, sourceType)
}

// WithPass adds the scan pass name to the context.
func WithPass(ctx context.Context, pass string) context.Context {
	return context.WithValue(ctx, PassKey, pass)
}

// GetOperation returns the operation name, or "unknown".
func GetOperation(ctx context.Context) string {
	return stringValue(ctx, OperationKey, "unknown")
}

// GetComponent returns the component name, or "unknown".
func GetComponent(ctx context.Context) string {
	return stringValue(ctx, ComponentKey, "unknown")
}

// GetFilePath returns the file path, or "".
func GetFilePath(ctx context.Context) string {
	return stringValue(ctx, FilePathKey, "")
}

// GetSourceType returns the source type, or "".
func GetSourceType(ctx context.Context) string {
	return stringValue(ctx, SourceTypeKey, "")
}

// GetPass returns the pass name, or "".
func GetPass(ctx context.Context) string {
	return stringValue(ctx, PassKey, "")
}

// ExtractContextFields returns the set values as key-value pairs for
// structured logging. Unset values are omitted.
func ExtractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	if op := GetOperation(ctx); op != "unknown" {
		fields = append(fields, string(OperationKey), op)
	}
	if comp := GetComponent(ctx); comp != "unknown" {
		fields = append(fields, string(ComponentKey), comp)
	}
	if st := GetSourceType(ctx); st != "" {
		fields = append(fields, string(SourceTypeKey), st)
	}
	if pass := GetPass(ctx); pass != "" {
		fields = append(fields, string(PassKey), pass)
	}
	if path := GetFilePath(ctx); path != "" {
		fields = append(fields, string(FilePathKey), path)
	}
	return fields
}

// NewOperationContext returns a background context tagged with operation
// and component.
func NewOperationContext(operation, component string) context.Context {
	return WithComponent(WithOperation(context.Background(), operation), component)
}

func stringValue(ctx context.Context, key ContextKey, fallback string) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return fallback
}

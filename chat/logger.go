package chat

// Logger is a minimal logging interface accepted by the SDK.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// noopLogger discards all logs.
type noopLogger struct{}

func (noopLogger) Debug(string, map[string]any) {}
func (noopLogger) Info(string, map[string]any)  {}
func (noopLogger) Warn(string, map[string]any)  {}
func (noopLogger) Error(string, map[string]any) {}

// fieldLogger stamps a fixed set of fields onto every entry.
type fieldLogger struct {
	base   Logger
	fields map[string]any
}

func withFields(base Logger, fields map[string]any) Logger {
	return fieldLogger{base: base, fields: fields}
}

func (l fieldLogger) merge(fields map[string]any) map[string]any {
	out := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (l fieldLogger) Debug(msg string, f map[string]any) { l.base.Debug(msg, l.merge(f)) }
func (l fieldLogger) Info(msg string, f map[string]any)  { l.base.Info(msg, l.merge(f)) }
func (l fieldLogger) Warn(msg string, f map[string]any)  { l.base.Warn(msg, l.merge(f)) }
func (l fieldLogger) Error(msg string, f map[string]any) { l.base.Error(msg, l.merge(f)) }

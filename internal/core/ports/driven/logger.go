package driven

// Logger receives leveled, structured log messages.
// Components take a Logger at construction instead of using a global,
// so tests can capture what a component emits.
type Logger interface {
	// Debug logs a diagnostic message.
	Debug(msg string, keyvals ...any)

	// Info logs an informational message.
	Info(msg string, keyvals ...any)

	// Warn logs a recoverable problem.
	Warn(msg string, keyvals ...any)

	// Error logs a failure that needs operator attention.
	Error(msg string, keyvals ...any)

	// With returns a child logger that adds keyvals to every message.
	With(keyvals ...any) Logger
}

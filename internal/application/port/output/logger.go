package output

// LoggerPort is structured logging with key-value pairs. Everything
// must end up on stderr: stdout carries the MCP transport.
type LoggerPort interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithField(key string, value any) LoggerPort

	Close() error
}

package types

// RunMode is the mode in which the application is running
type RunMode string

const (
	ModeLocal RunMode = "local"
	ModeSeed  RunMode = "seed"
)

// LogLevel is the level of the log
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

package appconfig

import (
	"github.com/gookit/slog"
)

// SetupLogger applies the logger configuration to the process-wide logger.
// Unrecognized level names fall back to the info level.
func SetupLogger(cfg LoggerConfig) {
	slog.SetLogLevel(slog.LevelByName(cfg.Level))

	if cfg.Format == "json" {
		slog.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
			f.PrettyPrint = cfg.PrettyPrint
		}))
	}
}

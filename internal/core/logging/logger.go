package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey is the field naming the subsystem that wrote a log line.
const ComponentKey = "cmp"

// Component returns the global logger tagged with name. The global logger
// is read at call time, so components created before the CLI configures
// logging keep writing to the default sink.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str(ComponentKey, name).Logger()
}

package logger

import "sync"

// componentLoggers caches loggers derived from the global logger, keyed by
// component name.
var componentLoggers sync.Map

// Get returns the logger for a component such as a provider. It is derived
// from the global logger on first use; Init and SetGlobalLogger discard
// previously derived loggers.
func Get(component string) *Logger {
	if l, ok := componentLoggers.Load(component); ok {
		return l.(*Logger)
	}
	l, _ := componentLoggers.LoadOrStore(component, GetGlobalLogger().WithComponent(component))
	return l.(*Logger)
}

func resetComponentLoggers() {
	componentLoggers.Clear()
}

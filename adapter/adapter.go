package adapter

import (
	"github.com/go-kit/log/level"
	"go.uber.org/zap"
)

// Logger adapts a zap logger to the go-kit log.Logger contract, so that zap
// can serve as the output sink for packages in this module that emit go-kit
// keyvals.
type Logger struct {
	*zap.Logger
}

// Log renders the keyvals through zap.  A go-kit level key, when present, is
// mapped onto the corresponding zap level; entries without one log at info.
func (l Logger) Log(keyvals ...interface{}) error {
	var (
		lvl    = level.InfoValue()
		fields = make([]zap.Field, 0, len(keyvals)/2)
	)

	for i := 0; i+1 < len(keyvals); i += 2 {
		if keyvals[i] == level.Key() {
			if v, ok := keyvals[i+1].(level.Value); ok {
				lvl = v
				continue
			}
		}

		key, ok := keyvals[i].(string)
		if !ok {
			key = "unknown"
		}

		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}

	// an odd trailing element would be a caller bug; it is dropped

	switch lvl {
	case level.DebugValue():
		l.Logger.Debug("", fields...)
	case level.WarnValue():
		l.Logger.Warn("", fields...)
	case level.ErrorValue():
		l.Logger.Error("", fields...)
	default:
		l.Logger.Info("", fields...)
	}

	return nil
}

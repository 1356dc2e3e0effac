package rlog

import "github.com/sirupsen/logrus"

// LogrusSink adapts an Entry stream onto a github.com/sirupsen/logrus
// logger, mirroring ZerologSink's mapping so callers can swap sinks
// without touching call sites.
type LogrusSink struct {
	l *logrus.Logger
}

// NewLogrusSink wraps l as a Logger.
func NewLogrusSink(l *logrus.Logger) *LogrusSink {
	return &LogrusSink{l: l}
}

func (s *LogrusSink) Enabled(level Level) bool {
	return s.l.IsLevelEnabled(logrusLevel(level))
}

func (s *LogrusSink) Log(e Entry) {
	fields := make(logrus.Fields, len(e.Fields)+2)
	for k, v := range e.Fields {
		fields[k] = v
	}
	if e.Category != "" {
		fields["category"] = e.Category
	}
	if e.Err != nil {
		fields["err"] = e.Err
	}
	s.l.WithFields(fields).Log(logrusLevel(e.Level), e.Message)
}

func logrusLevel(level Level) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError, LevelFatal:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

package rlog

import "github.com/rs/zerolog"

// ZerologSink adapts an Entry stream onto a github.com/rs/zerolog.Logger,
// grounded on the WithZerolog adapter pattern in logiface-zerolog: the
// third-party logger owns formatting and output, this type only maps
// Entry fields onto the matching zerolog.Event builder calls.
type ZerologSink struct {
	z zerolog.Logger
}

// NewZerologSink wraps z as a Logger.
func NewZerologSink(z zerolog.Logger) *ZerologSink {
	return &ZerologSink{z: z}
}

func (s *ZerologSink) Enabled(level Level) bool {
	return s.z.GetLevel() <= zerologLevel(level)
}

func (s *ZerologSink) Log(e Entry) {
	ev := s.zerologEvent(e.Level)
	if e.Category != "" {
		ev = ev.Str("category", e.Category)
	}
	for k, v := range e.Fields {
		ev = ev.Interface(k, v)
	}
	if e.Err != nil {
		ev = ev.Err(e.Err)
	}
	if !e.Timestamp.IsZero() {
		ev = ev.Time("ts", e.Timestamp)
	}
	ev.Msg(e.Message)
}

func (s *ZerologSink) zerologEvent(level Level) *zerolog.Event {
	switch level {
	case LevelDebug:
		return s.z.Debug()
	case LevelWarn:
		return s.z.Warn()
	case LevelError:
		return s.z.Error()
	case LevelFatal:
		return s.z.Error() // the core logs then panics itself; zerolog's Fatal() would os.Exit first
	default:
		return s.z.Info()
	}
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError, LevelFatal:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

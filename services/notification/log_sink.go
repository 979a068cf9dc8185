package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes events to zap. Ticks are logged at debug level.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, ev Event) error {
	fields := []zap.Field{
		zap.String("event", string(ev.Type)),
		zap.String("eventId", ev.ID),
	}
	msg := ev.Message
	if msg == "" {
		msg = "Parking event"
	}
	if ev.Type == EventSessionTick {
		s.logger.Debug(msg, fields...)
		return nil
	}
	s.logger.Info(msg, fields...)
	return nil
}

package notifier

import (
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/types"
)

var _ interfaces.EventSink = (*LogSink)(nil)

// LogSink writes notifications as structured log entries
type LogSink struct {
	logger logger.Logger
}

// NewLogSink creates a log sink
func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log.WithTarget("events")}
}

// Handle implements interfaces.EventSink
func (l *LogSink) Handle(event types.Event) error {
	fields := []logger.Field{
		logger.WithField("seq", event.Seq),
		logger.WithField("kind", event.Kind),
	}

	switch event.Kind {
	case types.EventOrderArrived, types.EventOrderReady:
		if o, ok := event.Order(); ok {
			fields = append(fields, logger.WithField("order_id", o.ID), logger.WithField("dish", o.Dish))
		}
		l.logger.Debug("Order moved", fields...)

	case types.EventOrderTaken:
		if o, ok := event.Order(); ok {
			fields = append(fields, logger.WithField("order_id", o.ID), logger.WithField("dish", o.Dish))
		}
		fields = append(fields, logger.WithField("cook_units", event.CookUnits))
		l.logger.Debug("Order taken", fields...)

	case types.EventOrdersDelivered:
		fields = append(fields,
			logger.WithField("count", len(event.Orders)),
			logger.WithField("order_ids", types.OrderIDs(event.Orders)))
		l.logger.Debug("Orders delivered", fields...)

	case types.EventProgramEnd:
		if s := event.Summary; s != nil {
			fields = append(fields,
				logger.WithField("produced", s.Produced),
				logger.WithField("delivered", s.Delivered),
				logger.WithField("undelivered", s.Undelivered()),
				logger.WithField("elapsed", s.Elapsed))
		}
		l.logger.Success("Program finished", fields...)
	}

	return nil
}

// Close implements interfaces.EventSink
func (l *LogSink) Close() error {
	return nil
}

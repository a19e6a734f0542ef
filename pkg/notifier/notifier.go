package notifier

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/types"
)

var _ interfaces.EventSink = (*DesktopSink)(nil)

// DesktopSink raises desktop notifications for deliveries and program end
type DesktopSink struct {
	enabled bool
	sound   bool
	logger  logger.Logger
	notify  func(title, message string) error
}

// DesktopConfig represents desktop notification configuration
type DesktopConfig struct {
	Enabled bool
	Sound   bool
}

// NewDesktopSink creates a desktop sink backed by beeep
func NewDesktopSink(config DesktopConfig, log logger.Logger) *DesktopSink {
	return &DesktopSink{
		enabled: config.Enabled,
		sound:   config.Sound,
		logger:  log,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Handle implements interfaces.EventSink
func (n *DesktopSink) Handle(event types.Event) error {
	if !n.enabled {
		return nil
	}

	title, message, ok := desktopMessage(event)
	if !ok {
		return nil
	}

	n.send(title, message, event.Kind == types.EventProgramEnd)
	return nil
}

// Close implements interfaces.EventSink
func (n *DesktopSink) Close() error {
	return nil
}

func (n *DesktopSink) send(title, message string, beep bool) {
	if err := n.notify(title, message); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}

	if beep && n.sound {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			n.logger.Debug("Failed to play sound", logger.WithField("error", err))
		}
	}
}

// desktopMessage picks the events worth a toast
func desktopMessage(event types.Event) (string, string, bool) {
	switch event.Kind {
	case types.EventOrdersDelivered:
		if len(event.Orders) == 0 {
			return "", "", false
		}
		return "🛵 Courier left", fmt.Sprintf("Delivering %d order(s): %v", len(event.Orders), types.OrderIDs(event.Orders)), true

	case types.EventProgramEnd:
		message := "Kitchen closed"
		if s := event.Summary; s != nil {
			message = fmt.Sprintf("Kitchen closed: %d delivered, %d undelivered", s.Delivered, s.Undelivered())
		}
		return "🍽 End of Program", message, true
	}

	return "", "", false
}

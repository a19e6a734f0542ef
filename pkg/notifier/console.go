package notifier

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/types"
)

var _ interfaces.EventSink = (*ConsoleSink)(nil)

// ConsoleSink prints human readable notifications
type ConsoleSink struct {
	out    io.Writer
	colors bool
	mu     sync.Mutex
}

// NewConsoleSink creates a console sink writing to out
func NewConsoleSink(out io.Writer, colors bool) *ConsoleSink {
	return &ConsoleSink{out: out, colors: colors}
}

// Handle implements interfaces.EventSink
func (c *ConsoleSink) Handle(event types.Event) error {
	text := c.Format(event)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.out, text)
	return err
}

// Close implements interfaces.EventSink
func (c *ConsoleSink) Close() error {
	return nil
}

// Format renders an event as console text
func (c *ConsoleSink) Format(event types.Event) string {
	var b strings.Builder

	switch event.Kind {
	case types.EventOrderArrived:
		b.WriteString(c.header("New order arrival:", color.FgCyan))
		writeOrders(&b, event.Orders)

	case types.EventOrderTaken:
		b.WriteString(c.header("Taking an order for execution:", color.FgYellow))
		writeOrders(&b, event.Orders)
		fmt.Fprintf(&b, "Cooking time: %d\n", event.CookUnits)

	case types.EventOrderReady:
		b.WriteString(c.header("Return of the finished dish for delivery:", color.FgGreen))
		writeOrders(&b, event.Orders)

	case types.EventOrdersDelivered:
		b.WriteString(c.header("The courier picks up the following ready meals:", color.FgMagenta))
		writeOrders(&b, event.Orders)

	case types.EventProgramEnd:
		b.WriteString(c.header("End of Program.", color.FgWhite))
		if s := event.Summary; s != nil {
			fmt.Fprintf(&b, "\tProduced: %d\n\tDelivered: %d\n\tUndelivered: %d\n",
				s.Produced, s.Delivered, s.Undelivered())
		}
	}

	return b.String()
}

func (c *ConsoleSink) header(text string, attr color.Attribute) string {
	if c.colors {
		text = color.New(attr, color.Bold).Sprint(text)
	}
	return "\n" + text + "\n"
}

func writeOrders(b *strings.Builder, orders []types.Order) {
	for _, o := range orders {
		fmt.Fprintf(b, "\tOrder id: %d\n\tDish: %s\n", o.ID, o.Dish)
	}
}

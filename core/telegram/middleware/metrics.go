package middleware

import tele "gopkg.in/telebot.v4"

const (
	messagesKey = "messages"
	keyboardKey = "kb"
)

// countingContext wraps tele.Context to count outgoing messages and keyboard usage.
type countingContext struct{ tele.Context }

func (m countingContext) record(err error, opts []interface{}) error {
	if err != nil {
		return err
	}
	n, _ := m.Get(messagesKey).(int)
	m.Set(messagesKey, n+1)
	if hasKeyboard(opts) {
		m.Set(keyboardKey, true)
	}
	return nil
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Send proxies tele.Context.Send while updating counters.
func (m countingContext) Send(what interface{}, opts ...interface{}) error {
	return m.record(m.Context.Send(what, opts...), opts)
}

// Reply proxies tele.Context.Reply while updating counters.
func (m countingContext) Reply(what interface{}, opts ...interface{}) error {
	return m.record(m.Context.Reply(what, opts...), opts)
}

// Edit proxies tele.Context.Edit while updating counters.
func (m countingContext) Edit(what interface{}, opts ...interface{}) error {
	return m.record(m.Context.Edit(what, opts...), opts)
}

// EditOrSend proxies tele.Context.EditOrSend while updating counters.
func (m countingContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return m.record(m.Context.EditOrSend(what, opts...), opts)
}

// EditOrReply proxies tele.Context.EditOrReply while updating counters.
func (m countingContext) EditOrReply(what interface{}, opts ...interface{}) error {
	return m.record(m.Context.EditOrReply(what, opts...), opts)
}

// MessageMetricsMiddleware counts messages sent while handling an update.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(messagesKey, 0)
		c.Set(keyboardKey, false)
		return next(countingContext{Context: c})
	}
}

// GetCounters reads the message count and keyboard flag recorded for the update.
func GetCounters(c tele.Context) (int, bool) {
	msgs, _ := c.Get(messagesKey).(int)
	kb, _ := c.Get(keyboardKey).(bool)
	return msgs, kb
}

package eventbus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/natepay/natepay/pkg/domain/events"
)

// envelope is the wire format for events crossing the broker: the event
// type plus the event's own JSON payload.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func buildEnvelope(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("event bus: marshal failed: %w", err)
	}
	envBytes, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return nil, fmt.Errorf("event bus: envelope marshal failed: %w", err)
	}
	return envBytes, nil
}

func decodeEnvelope(raw []byte, env *envelope) error {
	if err := json.Unmarshal(raw, env); err != nil {
		return err
	}
	if env.Type == "" {
		return errors.New("event bus: envelope missing type")
	}
	return nil
}

// decodeEvent reconstructs a typed event from an envelope payload.
func decodeEvent(eventType string, payload []byte) (events.Event, error) {
	var evt events.Event
	switch eventType {
	case events.PaymentCompleted{}.Type():
		evt = &events.PaymentCompleted{}
	case events.PaymentFailed{}.Type():
		evt = &events.PaymentFailed{}
	case events.SubscriberAdded{}.Type():
		evt = &events.SubscriberAdded{}
	case events.SubscriptionCanceled{}.Type():
		evt = &events.SubscriptionCanceled{}
	case events.PayoutSent{}.Type():
		evt = &events.PayoutSent{}
	case events.PayrollRunCompleted{}.Type():
		evt = &events.PayrollRunCompleted{}
	case events.OnboardingCompleted{}.Type():
		evt = &events.OnboardingCompleted{}
	default:
		return nil, fmt.Errorf("event bus: unknown event type %q", eventType)
	}
	if err := json.Unmarshal(payload, evt); err != nil {
		return nil, fmt.Errorf("event bus: unmarshal %s payload: %w", eventType, err)
	}
	return evt, nil
}

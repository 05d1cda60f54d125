package amqp

import (
	"encoding/json"
	"time"

	"condo/internal/notify"
)

// ActivityMessage is the wire form of a store change. It carries the
// notification text so consumers never read the store.
type ActivityMessage struct {
	Collection string    `json:"collection"`
	RecordID   string    `json:"recordId"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewActivityMessage(e notify.Event) *ActivityMessage {
	ts := e.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &ActivityMessage{
		Collection: e.Collection,
		RecordID:   e.RecordID,
		Message:    e.Message,
		Timestamp:  ts,
	}
}

func (m *ActivityMessage) Event() notify.Event {
	return notify.Event{Collection: m.Collection, RecordID: m.RecordID, Message: m.Message, At: m.Timestamp}
}

func (m *ActivityMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ActivityMessageFromJSON(data []byte) (*ActivityMessage, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

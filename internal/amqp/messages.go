package amqp

import (
	"encoding/json"
	"time"
)

// PaymentRecordedMessage is the lightweight event published after a payment
// write. It carries only the ids; the statement worker reloads the full
// history from the database before exporting.
type PaymentRecordedMessage struct {
	ChargeID      string    `json:"charge_id"`
	ParticipantID string    `json:"participant_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewPaymentRecordedMessage(chargeID, participantID string) *PaymentRecordedMessage {
	return &PaymentRecordedMessage{
		ChargeID:      chargeID,
		ParticipantID: participantID,
		Timestamp:     time.Now(),
	}
}

func (m *PaymentRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentRecordedMessageFromJSON(data []byte) (*PaymentRecordedMessage, error) {
	var msg PaymentRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

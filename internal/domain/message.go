package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	MessageTypePublic  = "message"
	MessageTypePrivate = "private_message"
	MessageTypeStatus  = "status"
)

// BroadcastTarget is the reserved recipient meaning "all current participants".
const BroadcastTarget = "Todos"

// Message is a single entry in the room log. Time is a display string formatted
// at write time; append order, not Time, is the canonical ordering.
type Message struct {
	ID   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	From string             `json:"from" bson:"from"`
	To   string             `json:"to" bson:"to"`
	Text string             `json:"text" bson:"text"`
	Type string             `json:"type" bson:"type"`
	Time string             `json:"time" bson:"time"`
}

// IsVisibleTo reports whether requester may see the message: public broadcasts
// and system notices are visible to everyone, private messages only to their
// sender and recipient.
func (m Message) IsVisibleTo(requester string) bool {
	return m.Type == MessageTypePublic ||
		m.Type == MessageTypeStatus ||
		m.From == requester ||
		m.To == requester
}

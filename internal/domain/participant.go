package domain

// Participant is a registered member of the room. LastStatus is the moment of
// the last registration or heartbeat, in milliseconds since the epoch.
type Participant struct {
	Name       string `json:"name" bson:"name"`
	LastStatus int64  `json:"lastStatus" bson:"lastStatus"`
}

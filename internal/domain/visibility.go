package domain

// VisibleTo selects the messages requester may see, preserving append order
// (oldest first).
//
// When limit is positive, only the most recent limit entries of the filtered
// sequence are kept, still oldest first: the sequence is truncated from the
// front, never reversed. A non-positive limit returns the whole sequence.
func VisibleTo(requester string, msgs []Message, limit int) []Message {
	visible := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.IsVisibleTo(requester) {
			visible = append(visible, m)
		}
	}
	if limit > 0 && len(visible) > limit {
		visible = visible[len(visible)-limit:]
	}
	return visible
}

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// Epoch values above this are taken as milliseconds (year 5138 in seconds).
const epochMillisThreshold = 1e11

// Message is one direct message, either from history or from the live
// transport. LocalID is set only on optimistically appended messages.
type Message struct {
	SenderID  int64     `json:"sender_id"`
	To        int64     `json:"to"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	LocalID   string    `json:"-"`
}

// IsMine reports whether the message was sent by selfID.
func (m Message) IsMine(selfID int64) bool {
	return m.SenderID == selfID
}

// Involves reports whether peerID takes part in the message from the point of
// view of selfID: either selfID wrote to peerID, or peerID wrote to selfID.
func (m Message) Involves(selfID, peerID int64) bool {
	if m.IsMine(selfID) {
		return m.To == peerID
	}
	return m.SenderID == peerID
}

type wireMessage struct {
	SenderID  *int64          `json:"sender_id"`
	From      *int64          `json:"from"`
	To        int64           `json:"to"`
	Content   string          `json:"content"`
	CreatedAt json.RawMessage `json:"created_at"`
}

// UnmarshalJSON accepts the sender under either "sender_id" or "from".
// created_at may be a string in any known layout or a Unix epoch number;
// a stamp that cannot be read leaves CreatedAt zero instead of failing.
func (m *Message) UnmarshalJSON(b []byte) error {
	var w wireMessage
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*m = Message{To: w.To, Content: w.Content}
	switch {
	case w.SenderID != nil && *w.SenderID != 0:
		m.SenderID = *w.SenderID
	case w.From != nil:
		m.SenderID = *w.From
	}

	m.CreatedAt = decodeTimestamp(w.CreatedAt)
	return nil
}

func decodeTimestamp(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		ts, err := ParseTimestamp(s)
		if err != nil {
			return time.Time{}
		}
		return ts
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return time.Time{}
	}
	return fromEpoch(n)
}

// fromEpoch reads seconds, or milliseconds when the value is too large to
// be a plausible number of seconds.
func fromEpoch(n json.Number) time.Time {
	if v, err := n.Int64(); err == nil {
		if v > epochMillisThreshold || v < -epochMillisThreshold {
			return time.UnixMilli(v).UTC()
		}
		return time.Unix(v, 0).UTC()
	}
	f, err := n.Float64()
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(int64(f * 1000)).UTC()
}

// ParseTimestamp parses the timestamp formats the backend is known to emit.
// An empty string yields the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// OutboundMessage is the frame written to the live transport.
type OutboundMessage struct {
	To      int64  `json:"to"`
	Content string `json:"content"`
}

package subscriptions

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is stored in canonical case. Documents written by other clients
// may use any casing; they decode to the canonical value.
type Status string

const (
	StatusActive  Status = "Active"
	StatusExpired Status = "Expired"
	StatusPending Status = "Pending"
)

var knownStatuses = []Status{StatusActive, StatusExpired, StatusPending}

// ParseStatus canonicalizes raw. Unknown values are returned trimmed and
// reported as not ok.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range knownStatuses {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return Status(raw), false
}

// Filter matches the status in any casing.
func (s Status) Filter() primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(string(s)) + "$", Options: "i"}
}

// Matches reports whether raw is s in any casing.
func (s Status) Matches(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), string(s))
}

func (s *Status) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	str, ok := raw.StringValueOK()
	if !ok {
		*s = ""
		return nil
	}
	*s, _ = ParseStatus(str)
	return nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s, _ = ParseStatus(raw)
	return nil
}

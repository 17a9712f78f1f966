package customers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// FlexString decodes strings and numbers alike. Phone numbers in the users
// collection are stored both ways.
type FlexString string

func (s *FlexString) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*s = FlexString(raw.StringValue())
	case bsontype.Int32:
		*s = FlexString(strconv.FormatInt(int64(raw.Int32()), 10))
	case bsontype.Int64:
		*s = FlexString(strconv.FormatInt(raw.Int64(), 10))
	case bsontype.Double:
		*s = FlexString(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	default:
		*s = ""
	}
	return nil
}

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = FlexString(n.String())
	}
	return nil
}

// FlexBool decodes booleans, 0/1 numbers and "true"/"false" strings.
// Anything else decodes to false. It is written back as a boolean.
type FlexBool bool

func (b *FlexBool) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Boolean:
		*b = FlexBool(raw.Boolean())
	case bsontype.Int32:
		*b = raw.Int32() != 0
	case bsontype.Int64:
		*b = raw.Int64() != 0
	case bsontype.Double:
		*b = raw.Double() != 0
	case bsontype.String:
		parsed, err := strconv.ParseBool(strings.TrimSpace(raw.StringValue()))
		*b = FlexBool(err == nil && parsed)
	default:
		*b = false
	}
	return nil
}

// Loose holds a field whose shape is decided by the consumer application,
// such as an address string or an embedded subscription document.
type Loose struct {
	value interface{}
}

func (l Loose) Value() interface{} { return l.value }

func (l Loose) IsZero() bool { return l.value == nil }

func (l *Loose) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		l.value = nil
	case bsontype.EmbeddedDocument:
		var m bson.M
		if err := bson.Unmarshal(data, &m); err != nil {
			return err
		}
		l.value = m
	default:
		var v interface{}
		if err := raw.Unmarshal(&v); err != nil {
			return err
		}
		l.value = v
	}
	return nil
}

func (l Loose) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.value)
}

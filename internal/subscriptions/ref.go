package subscriptions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type refKind uint8

const (
	refNone refKind = iota
	refInt
	refObjectID
	refString
)

// Ref is an identifier written by the consumer application. Depending on
// which client created the document it is an integer, an ObjectID or a
// plain string; Ref keeps whichever form was stored so queries match it.
type Ref struct {
	kind refKind
	num  int64
	oid  primitive.ObjectID
	str  string
}

func IntRef(n int64) Ref { return Ref{kind: refInt, num: n} }

func ObjectIDRef(id primitive.ObjectID) Ref { return Ref{kind: refObjectID, oid: id} }

func StringRef(s string) Ref {
	if s == "" {
		return Ref{}
	}
	return Ref{kind: refString, str: s}
}

// ParseRef interprets user input: 24 hex characters are an ObjectID, an
// integer is a number and anything else stays a string.
func ParseRef(raw string) Ref {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}
	}
	if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
		return ObjectIDRef(oid)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntRef(n)
	}
	return StringRef(raw)
}

func (r Ref) IsZero() bool { return r.kind == refNone }

func (r Ref) Int() (int64, bool) { return r.num, r.kind == refInt }

func (r Ref) ObjectID() (primitive.ObjectID, bool) { return r.oid, r.kind == refObjectID }

func (r Ref) String() string {
	switch r.kind {
	case refInt:
		return strconv.FormatInt(r.num, 10)
	case refObjectID:
		return r.oid.Hex()
	case refString:
		return r.str
	default:
		return ""
	}
}

// Value returns the form used in queries.
func (r Ref) Value() interface{} {
	switch r.kind {
	case refInt:
		return r.num
	case refObjectID:
		return r.oid
	case refString:
		return r.str
	default:
		return nil
	}
}

func (r Ref) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if r.IsZero() {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(r.Value())
}

func (r *Ref) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Int32:
		*r = IntRef(int64(raw.Int32()))
	case bsontype.Int64:
		*r = IntRef(raw.Int64())
	case bsontype.Double:
		f := raw.Double()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			*r = IntRef(int64(f))
		} else {
			*r = StringRef(strconv.FormatFloat(f, 'f', -1, 64))
		}
	case bsontype.ObjectID:
		*r = ObjectIDRef(raw.ObjectID())
	case bsontype.String:
		*r = StringRef(raw.StringValue())
	default:
		*r = Ref{}
	}
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case refInt:
		return []byte(strconv.FormatInt(r.num, 10)), nil
	case refNone:
		return []byte("null"), nil
	default:
		return json.Marshal(r.String())
	}
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = ParseRef(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("id reference must be an integer or a string: %s", data)
	}
	*r = IntRef(n)
	return nil
}

package subscriptions

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// FlexFloat decodes numbers of any BSON width and numeric strings. Values
// that are not numbers decode to zero. It is written back as a double.
type FlexFloat float64

func (f *FlexFloat) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Double:
		*f = FlexFloat(raw.Double())
	case bsontype.Int32:
		*f = FlexFloat(raw.Int32())
	case bsontype.Int64:
		*f = FlexFloat(raw.Int64())
	case bsontype.Decimal128:
		parsed, err := strconv.ParseFloat(raw.Decimal128().String(), 64)
		if err != nil {
			parsed = 0
		}
		*f = FlexFloat(parsed)
	case bsontype.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw.StringValue()), 64)
		if err != nil {
			parsed = 0
		}
		*f = FlexFloat(parsed)
	default:
		*f = 0
	}
	return nil
}

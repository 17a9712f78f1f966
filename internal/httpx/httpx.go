package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"convenz-admin/internal/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidJSON = apperr.Validation("invalid json")
	ErrInvalidID   = apperr.Validation("invalid id")
)

// InvalidQuery reports a query parameter with an unsupported value.
func InvalidQuery(param string) error {
	return apperr.Validation("invalid " + param)
}

// DecodeJSON decodes a single JSON object, rejecting unknown fields.
func DecodeJSON(body io.Reader, v interface{}) error {
	return decode(body, v, true)
}

// DecodeJSONLenient is DecodeJSON for payloads pushed by external
// applications, which may carry fields this service does not know.
func DecodeJSONLenient(body io.Reader, v interface{}) error {
	return decode(body, v, false)
}

func decode(body io.Reader, v interface{}, strict bool) error {
	dec := json.NewDecoder(body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// ParseObjectID parses a path id, reporting malformed ids as validation errors.
func ParseObjectID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// Page is a limit/page pagination request. Limit 0 means unbounded.
type Page struct {
	Limit int64
	Page  int64
}

func (p Page) Skip() int64 {
	if p.Limit <= 0 || p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func ParsePage(values url.Values, maxLimit int64) (Page, error) {
	p := Page{Page: 1}

	rawLimit := strings.TrimSpace(values.Get("limit"))
	if rawLimit != "" {
		parsed, err := strconv.ParseInt(rawLimit, 10, 64)
		if err != nil || parsed < 0 {
			return Page{}, apperr.Validation("invalid limit")
		}
		p.Limit = parsed
	}

	rawPage := strings.TrimSpace(values.Get("page"))
	if rawPage != "" {
		parsed, err := strconv.ParseInt(rawPage, 10, 64)
		if err != nil || parsed < 1 {
			return Page{}, apperr.Validation("invalid page")
		}
		p.Page = parsed
	}

	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	// Skip must stay representable.
	if p.Limit > 0 && p.Page-1 > math.MaxInt64/p.Limit {
		return Page{}, apperr.Validation("invalid page")
	}
	return p, nil
}

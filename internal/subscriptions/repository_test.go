package subscriptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter ListFilter
		want   bson.M
	}{
		{name: "no filter", filter: ListFilter{}, want: bson.M{}},
		{
			name:   "status matches any casing",
			filter: ListFilter{Status: StatusActive},
			want:   bson.M{"status": primitive.Regex{Pattern: "^Active$", Options: "i"}},
		},
		{
			name:   "status and pack",
			filter: ListFilter{Status: StatusExpired, Pack: "Gold"},
			want: bson.M{
				"status":      primitive.Regex{Pattern: "^Expired$", Options: "i"},
				"currentPack": "Gold",
			},
		},
		{name: "pack only", filter: ListFilter{Pack: "Basic"}, want: bson.M{"currentPack": "Basic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listQuery(tt.filter))
		})
	}
}

func TestLatestQuery(t *testing.T) {
	oid := primitive.NewObjectID()
	got := latestQuery([]Ref{IntRef(7), {}, ObjectIDRef(oid), StringRef("guest-1")}, StatusActive)

	assert.Equal(t, bson.M{
		"userId": bson.M{"$in": []interface{}{int64(7), oid, "guest-1"}},
		"status": primitive.Regex{Pattern: "^Active$", Options: "i"},
	}, got)

	assert.Equal(t, bson.M{"userId": bson.M{"$in": []interface{}{int64(7)}}}, latestQuery([]Ref{IntRef(7)}, ""))
}

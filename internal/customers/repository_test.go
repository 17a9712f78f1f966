package customers

import (
	"testing"
	"time"

	"convenz-admin/internal/subscriptions"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildQuery(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name string
		q    userQuery
		want bson.M
	}{
		{name: "unrestricted", q: userQuery{}, want: bson.M{}},
		{
			name: "restricted to matching users",
			q:    userQuery{Restrict: true, UserIDs: []subscriptions.Ref{subscriptions.IntRef(3), {}, subscriptions.ObjectIDRef(oid)}},
			want: bson.M{"user_id": bson.M{"$in": []interface{}{int64(3), oid}}},
		},
		{
			name: "restricted with no users matches nothing",
			q:    userQuery{Restrict: true},
			want: bson.M{"user_id": bson.M{"$in": []interface{}{}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildQuery(tt.q))
		})
	}
}

func TestPhoneUpsert(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	filter, update := phoneUpsert("9876543210", bson.M{"name": "Asha"}, now)
	assert.Equal(t, bson.M{"phone": bson.M{"$in": []interface{}{"9876543210", int64(9876543210)}}}, filter)
	assert.Equal(t, bson.M{
		"$setOnInsert": bson.M{"phone": "9876543210", "isBlocked": false, "createdAt": now},
		"$set":         bson.M{"name": "Asha"},
	}, update)

	filter, update = phoneUpsert("+91 98765", nil, now)
	assert.Equal(t, bson.M{"phone": bson.M{"$in": []interface{}{"+91 98765"}}}, filter)
	assert.NotContains(t, update, "$set")

	// Mongo rejects an update whose $set and $setOnInsert touch the same path.
	_, update = phoneUpsert("0123", bson.M{"name": "A", "currentPack": "Gold", "status": "Active", "expiryDate": now}, now)
	for key := range update["$set"].(bson.M) {
		assert.NotContains(t, update["$setOnInsert"], key)
	}
}

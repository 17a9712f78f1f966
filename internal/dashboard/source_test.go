package dashboard

import (
	"regexp"
	"testing"

	"convenz-admin/internal/bookings"
	"convenz-admin/internal/subscriptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBookingStatusIn(t *testing.T) {
	got := bookingStatusIn([]string{bookings.StatusConfirmed, bookings.StatusCompleted})
	assert.Equal(t, bson.M{"bookingStatus": bson.M{"$in": []string{"confirmed", "completed"}}}, got)
	assert.NotContains(t, got, "status")
}

func TestSubscriptionStatusIn(t *testing.T) {
	got := subscriptionStatusIn([]subscriptions.Status{subscriptions.StatusActive, subscriptions.StatusExpired})

	want := bson.M{"status": bson.M{"$in": []primitive.Regex{
		{Pattern: "^Active$", Options: "i"},
		{Pattern: "^Expired$", Options: "i"},
	}}}
	assert.Equal(t, want, got)

	patterns := got["status"].(bson.M)["$in"].([]primitive.Regex)
	tests := []struct {
		value string
		want  bool
	}{
		{value: "Active", want: true},
		{value: "active", want: true},
		{value: "EXPIRED", want: true},
		{value: "Pending", want: false},
		{value: "Inactive", want: false},
		{value: "Active plan", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			matched := false
			for _, p := range patterns {
				re := regexp.MustCompile("(?" + p.Options + ")" + p.Pattern)
				matched = matched || re.MatchString(tt.value)
			}
			assert.Equal(t, tt.want, matched)
		})
	}
}

func TestSumPipeline(t *testing.T) {
	match := bson.M{"bookingStatus": bookings.StatusCompleted}
	pipeline := sumPipeline(match, "$amount")
	require.Len(t, pipeline, 2)

	assert.Equal(t, bson.D{{Key: "$match", Value: match}}, pipeline[0])

	group := pipeline[1][0]
	assert.Equal(t, "$group", group.Key)
	stage := group.Value.(bson.D).Map()
	assert.Nil(t, stage["_id"])

	total := stage["total"].(bson.D).Map()
	convert := total["$sum"].(bson.D).Map()["$convert"].(bson.D).Map()
	assert.Equal(t, "$amount", convert["input"])
	assert.Equal(t, "double", convert["to"])
	assert.Equal(t, 0, convert["onError"])
	assert.Equal(t, 0, convert["onNull"])
}

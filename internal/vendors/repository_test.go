package vendors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestHighestSequencePipeline(t *testing.T) {
	pipeline := highestSequencePipeline()
	require.Len(t, pipeline, 4)

	match := pipeline[0][0]
	require.Equal(t, "$match", match.Key)
	pattern := match.Value.(bson.M)["vendorId"].(bson.M)["$regex"].(string)
	re := regexp.MustCompile(pattern)
	for _, id := range []string{"VEND-00001", "VEND-99999", "VEND-100000", FormatVendorID(123456789)} {
		assert.True(t, re.MatchString(id), id)
	}
	for _, id := range []string{"VEND-", "VEND-12a", "vend-00001", "X-VEND-00001", "VEND-1234567890123456789"} {
		assert.False(t, re.MatchString(id), id)
	}

	project := pipeline[1][0]
	require.Equal(t, "$project", project.Key)
	assert.Equal(t, bson.D{
		{Key: "_id", Value: 0},
		{Key: "seq", Value: bson.D{{Key: "$toLong", Value: bson.D{{Key: "$substrCP", Value: bson.A{
			"$vendorId",
			5,
			bson.D{{Key: "$subtract", Value: bson.A{bson.D{{Key: "$strLenCP", Value: "$vendorId"}}, 5}}},
		}}}}}},
	}, project.Value)

	// Sorting the numeric projection, not the string, keeps VEND-100000
	// above VEND-99999.
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "seq", Value: -1}}}}, pipeline[2])
	assert.Equal(t, bson.D{{Key: "$limit", Value: 1}}, pipeline[3])
}

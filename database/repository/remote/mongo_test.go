package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToRecordsNormalizesDriverTypes(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	docs := []bson.M{{
		"_id":        primitive.NewObjectID(),
		"id":         "PKG-1",
		"created_at": primitive.NewDateTimeFromTime(created),
		"itinerary":  primitive.A{bson.M{"day": int32(1), "title": "Arrival"}},
		"meta":       primitive.D{{Key: "k", Value: "v"}},
	}}

	rows := toRecords(docs)

	assert.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "PKG-1", row.ID())
	assert.NotContains(t, row, "_id")
	assert.Equal(t, "2024-05-01T10:00:00Z", row["created_at"])
	assert.Equal(t, []any{map[string]any{"day": int32(1), "title": "Arrival"}}, row["itinerary"])
	assert.Equal(t, map[string]any{"k": "v"}, row["meta"])
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "", Record{}.ID())
	assert.Equal(t, "", Record{"id": 7}.ID())
	assert.Equal(t, "a", Record{"id": "a"}.ID())
}

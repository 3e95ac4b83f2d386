package remote

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on MongoDB, one collection per table.
type MongoStore struct {
	db      *mongo.Database
	timeout time.Duration
}

// NewMongoStore creates a store over the given database. timeout bounds each call.
func NewMongoStore(client *mongo.Client, dbName string, timeout time.Duration) *MongoStore {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	s := &MongoStore{db: client.Database(dbName), timeout: timeout}
	if err := s.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return s
}

func (s *MongoStore) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.timeout)
}

var noID = options.Find().SetProjection(bson.M{"_id": 0})

func (s *MongoStore) find(ctx context.Context, table string, filter bson.M, opts ...*options.FindOptions) ([]Record, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	cursor, err := s.db.Collection(table).Find(ctx, filter, append([]*options.FindOptions{noID}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", table, err)
	}
	return toRecords(docs), nil
}

func (s *MongoStore) SelectAll(ctx context.Context, table, orderBy string) ([]Record, error) {
	opts := options.Find()
	if orderBy != "" {
		opts.SetSort(bson.D{{Key: orderBy, Value: -1}})
	}
	return s.find(ctx, table, bson.M{}, opts)
}

func (s *MongoStore) SelectWhere(ctx context.Context, table, field string, value any) ([]Record, error) {
	return s.find(ctx, table, bson.M{field: value})
}

func (s *MongoStore) SelectByEmail(ctx context.Context, table, email string) (Record, error) {
	filter := bson.M{"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"}}
	rows, err := s.find(ctx, table, filter, options.Find().SetLimit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *MongoStore) Upsert(ctx context.Context, table string, row Record) error {
	id := row.ID()
	if id == "" {
		return fmt.Errorf("upsert into %s: row has no id", table)
	}
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	_, err := s.db.Collection(table).ReplaceOne(ctx, bson.M{"id": id}, bson.M(row), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert %s %s: %w", table, id, err)
	}
	return nil
}

func (s *MongoStore) UpsertMany(ctx context.Context, table string, rows []Record) error {
	if len(rows) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(rows))
	for _, row := range rows {
		if row.ID() == "" {
			continue
		}
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": row.ID()}).
			SetReplacement(bson.M(row)).
			SetUpsert(true))
	}
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	if _, err := s.db.Collection(table).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to bulk upsert %s: %w", table, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, table, id string) error {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	if _, err := s.db.Collection(table).DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", table, id, err)
	}
	return nil
}

func (s *MongoStore) UpdatePartial(ctx context.Context, table, id string, fields Record) error {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	res, err := s.db.Collection(table).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", table, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update %s %s: %w", table, id, ErrNoMatch)
	}
	return nil
}

func (s *MongoStore) Increment(ctx context.Context, table, id, field string, delta int64) error {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	res, err := s.db.Collection(table).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return fmt.Errorf("failed to increment %s.%s for %s: %w", table, field, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("increment %s %s: %w", table, id, ErrNoMatch)
	}
	return nil
}

func (s *MongoStore) SelectProfilesJoined(ctx context.Context) ([]Record, error) {
	ctx, cancel := s.newContext(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: TableAgencies},
			{Key: "localField", Value: "id"},
			{Key: "foreignField", Value: "id"},
			{Key: "as", Value: "agency"},
		}}},
		{{Key: "$replaceRoot", Value: bson.D{
			{Key: "newRoot", Value: bson.D{
				{Key: "$mergeObjects", Value: bson.A{
					bson.D{{Key: "$arrayElemAt", Value: bson.A{"$agency", 0}}},
					"$$ROOT",
				}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}, {Key: "agency", Value: 0}}}},
	}

	cursor, err := s.db.Collection(TableProfiles).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to join profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return toRecords(docs), nil
}

func toRecords(docs []bson.M) []Record {
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		delete(d, "_id")
		out = append(out, Record(normalize(d).(map[string]any)))
	}
	return out
}

// normalize turns driver container types into plain maps and slices.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	default:
		return v
	}
}

package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"abrengine/internal/domain"
	"abrengine/internal/domain/ports"
)

const defaultListLimit = 100

type viewingDoc struct {
	SegmentID     int     `bson:"segmentId"`
	WatchDuration float64 `bson:"watchDuration"`
	RecordedAt    int64   `bson:"recordedAt"` // unix milliseconds
}

// ViewingHistoryRepository is the durable archive of viewing events backing
// the in-memory log across restarts and instances.
type ViewingHistoryRepository struct {
	collection *mongo.Collection
}

func NewViewingHistoryRepository(client *mongo.Client, dbName string) *ViewingHistoryRepository {
	return &ViewingHistoryRepository{collection: client.Database(dbName).Collection("viewing_history")}
}

func (r *ViewingHistoryRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.collection == nil {
		return nil
	}
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "recordedAt", Value: -1}}},
		{Keys: bson.D{{Key: "segmentId", Value: 1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, models)
	return err
}

func (r *ViewingHistoryRepository) Append(ctx context.Context, events []ports.ArchivedViewing) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(events))
	for _, ev := range events {
		docs = append(docs, toViewingDoc(ev))
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// ListRecent returns the newest events first, at most limit of them.
func (r *ViewingHistoryRepository) ListRecent(ctx context.Context, limit int) ([]ports.ArchivedViewing, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "recordedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []viewingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]ports.ArchivedViewing, 0, len(docs))
	for _, doc := range docs {
		events = append(events, fromViewingDoc(doc))
	}
	return events, nil
}

func toViewingDoc(ev ports.ArchivedViewing) viewingDoc {
	return viewingDoc{
		SegmentID:     ev.Record.SegmentID,
		WatchDuration: ev.Record.WatchDuration,
		RecordedAt:    ev.RecordedAt.UnixMilli(),
	}
}

func fromViewingDoc(doc viewingDoc) ports.ArchivedViewing {
	return ports.ArchivedViewing{
		Record: domain.ViewingRecord{
			SegmentID:     doc.SegmentID,
			WatchDuration: doc.WatchDuration,
		},
		RecordedAt: time.UnixMilli(doc.RecordedAt).UTC(),
	}
}

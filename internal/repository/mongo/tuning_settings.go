package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"abrengine/internal/app"
)

const tuningSettingsID = "tuning"

type tuningSettingsDoc struct {
	ID              string  `bson:"_id"`
	DebounceCycles  int     `bson:"debounceCycles"`
	SegmentDuration float64 `bson:"segmentDurationSec"`
	UpdatedAt       int64   `bson:"updatedAt"`
}

type TuningSettingsRepository struct {
	collection *mongo.Collection
}

func NewTuningSettingsRepository(client *mongo.Client, dbName string) *TuningSettingsRepository {
	return &TuningSettingsRepository{collection: client.Database(dbName).Collection("settings")}
}

func (r *TuningSettingsRepository) GetTuningSettings(ctx context.Context) (app.TuningSettings, bool, error) {
	var doc tuningSettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": tuningSettingsID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return app.TuningSettings{}, false, nil
		}
		return app.TuningSettings{}, false, err
	}
	return app.TuningSettings{
		DebounceCycles:         doc.DebounceCycles,
		SegmentDurationSeconds: doc.SegmentDuration,
	}, true, nil
}

func (r *TuningSettingsRepository) SetTuningSettings(ctx context.Context, settings app.TuningSettings) error {
	update := bson.M{
		"$set": bson.M{
			"debounceCycles":     settings.DebounceCycles,
			"segmentDurationSec": settings.SegmentDurationSeconds,
			"updatedAt":          time.Now().Unix(),
		},
	}
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": tuningSettingsID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

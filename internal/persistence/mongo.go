package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/chatroom-service/internal/config"
	"github.com/fathima-sithara/chatroom-service/internal/core"
)

const snapshotID = "snapshot"

// MongoSink keeps the state snapshot in a single upserted document. The
// state itself is stored as a JSON string so the document shape stays
// decoupled from the core types.
type MongoSink struct {
	col *mongo.Collection
}

type snapshotDoc struct {
	ID    string `bson:"_id"`
	State string `bson:"state"`
}

func NewMongoSink(ctx context.Context, cfg config.MongoConfig) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &MongoSink{col: client.Database(cfg.Database).Collection(cfg.Collection)}, nil
}

func (s *MongoSink) Load(ctx context.Context) (*core.State, error) {
	var doc snapshotDoc
	err := s.col.FindOne(ctx, bson.M{"_id": snapshotID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	var st core.State
	if err := json.Unmarshal([]byte(doc.State), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *MongoSink) Save(ctx context.Context, st *core.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	doc := snapshotDoc{ID: snapshotID, State: string(b)}
	_, err = s.col.ReplaceOne(ctx, bson.M{"_id": snapshotID}, doc, options.Replace().SetUpsert(true))
	return err
}

// store/mongo.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vinizap/notes-api/domain"
)

// Mongo stores notes as documents in one collection.
type Mongo struct {
	client *mongo.Client
	notes  *mongo.Collection
}

type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d noteDocument) note() domain.Note {
	return domain.Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
	}
}

func OpenMongo(ctx context.Context, connStr, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connStr))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(database).Collection(Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo index: %w", err)
	}

	return &Mongo{client: client, notes: coll}, nil
}

func (m *Mongo) List(ctx context.Context) ([]domain.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := m.notes.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []noteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	notes := make([]domain.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, d.note())
	}
	return notes, nil
}

func (m *Mongo) Get(ctx context.Context, id string) (domain.Note, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.Note{}, err
	}
	var doc noteDocument
	if err := m.notes.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Note{}, domain.ErrNotFound
		}
		return domain.Note{}, err
	}
	return doc.note(), nil
}

func (m *Mongo) Create(ctx context.Context, note domain.Note) (string, error) {
	res, err := m.notes.InsertOne(ctx, noteDocument{
		Title:     note.Title,
		Content:   note.Content,
		Completed: note.Completed,
		CreatedAt: note.CreatedAt,
	})
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo insert: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (m *Mongo) Update(ctx context.Context, id string, patch domain.NotePatch) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": oid}

	set := patchSet(patch)
	if len(set) == 0 {
		// $set rejects an empty document; only report whether the note exists.
		n, err := m.notes.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return nil
	}

	res, err := m.notes.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.notes.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q: %w", domain.ErrMalformedID, id, err)
	}
	return oid, nil
}

// patchSet turns the allow-listed patch fields into a $set document.
func patchSet(p domain.NotePatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Completed != nil {
		set["completed"] = *p.Completed
	}
	return set
}

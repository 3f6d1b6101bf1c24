package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/couchcryptid/lead-capture-service/internal/domain"
)

// Store implements domain.LeadStore on a MongoDB collection. Documents use
// the same field names as the sales sheet columns.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type leadDoc struct {
	ID              string     `bson:"_id"`
	BusinessName    string     `bson:"Business Name"`
	Email           string     `bson:"Email Address"`
	Phone           string     `bson:"Phone Number"`
	MonthlyEstimate string     `bson:"Monthly Estimate"`
	SubmittedAt     *time.Time `bson:"SubmittedAt"`
	Contacted       bool       `bson:"contacted"`
}

// Connect dials uri, verifies the primary is reachable and returns a store
// bound to database/collection.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "SubmittedAt", Value: -1}},
		Options: options.Index().SetName("submitted_at_idx"),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo create index: %w", err)
	}

	return &Store{client: client, coll: coll}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateLead(ctx context.Context, lead domain.Lead) error {
	if _, err := s.coll.InsertOne(ctx, toDoc(lead)); err != nil {
		return fmt.Errorf("insert lead %s: %w", lead.ID, err)
	}
	return nil
}

func (s *Store) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	var docs []leadDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}

	leads := make([]domain.Lead, 0, len(docs))
	for _, d := range docs {
		leads = append(leads, d.toLead())
	}
	return leads, nil
}

func (s *Store) SetContacted(ctx context.Context, id string, contacted bool) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"contacted": contacted}},
	)
	if err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func toDoc(l domain.Lead) leadDoc {
	return leadDoc{
		ID:              l.ID,
		BusinessName:    l.BusinessName,
		Email:           l.Email,
		Phone:           l.Phone,
		MonthlyEstimate: l.MonthlyEstimate,
		SubmittedAt:     l.SubmittedAt,
		Contacted:       l.Contacted,
	}
}

func (d leadDoc) toLead() domain.Lead {
	l := domain.Lead{
		ID:              d.ID,
		BusinessName:    d.BusinessName,
		Email:           d.Email,
		Phone:           d.Phone,
		MonthlyEstimate: d.MonthlyEstimate,
		Contacted:       d.Contacted,
	}
	if d.SubmittedAt != nil {
		t := d.SubmittedAt.UTC()
		l.SubmittedAt = &t
	}
	return l
}

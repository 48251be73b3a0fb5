// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package mongostore persists agendas and sessions as MongoDB documents.
// Votes are embedded in their session document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/danielhkuo/voting-sessions/models"
)

const (
	agendaCollection  = "agendas"
	sessionCollection = "sessions"
)

type agendaDoc struct {
	ID          string  `bson:"_id"`
	Description string  `bson:"description"`
	Status      string  `bson:"status"`
	Result      *string `bson:"result"`
	CreatedAt   int64   `bson:"created_at"`
}

type sessionDoc struct {
	ID        string    `bson:"_id"`
	AgendaID  string    `bson:"agenda_id"`
	Duration  int64     `bson:"duration"`
	StartDate time.Time `bson:"start_date"`
	EndDate   time.Time `bson:"end_date"`
	Status    string    `bson:"status"`
	Votes     []voteDoc `bson:"votes"`
	CreatedAt int64     `bson:"created_at"`
}

type voteDoc struct {
	MemberID   string `bson:"member_id"`
	MemberCPF  string `bson:"member_cpf"`
	VoteOption string `bson:"vote_option"`
}

type Store struct {
	client   *mongo.Client
	agendas  *mongo.Collection
	sessions *mongo.Collection
}

// Open connects to uri, verifies the connection and ensures indexes.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		agendas:  db.Collection(agendaCollection),
		sessions: db.Collection(sessionCollection),
	}

	_, err = s.sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "agenda_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create session index: %w", err)
	}

	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// created_at is only written on insert and orders listings.
func upsert(ctx context.Context, coll *mongo.Collection, id string, fields bson.M) error {
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"created_at": time.Now().UnixNano()},
	}
	_, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	return err
}

func (s *Store) SaveAgenda(ctx context.Context, agenda models.Agenda) (models.Agenda, error) {
	if agenda.ID == "" {
		agenda.ID = primitive.NewObjectID().Hex()
	}

	err := upsert(ctx, s.agendas, agenda.ID, bson.M{
		"description": agenda.Description,
		"status":      agenda.Status,
		"result":      agenda.Result,
	})
	if err != nil {
		return models.Agenda{}, fmt.Errorf("upsert agenda: %w", err)
	}
	return agenda, nil
}

func (s *Store) FindAgenda(ctx context.Context, id string) (models.Agenda, bool, error) {
	var doc agendaDoc
	err := s.agendas.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Agenda{}, false, nil
	}
	if err != nil {
		return models.Agenda{}, false, fmt.Errorf("find agenda: %w", err)
	}
	return doc.toModel(), true, nil
}

func (s *Store) ListAgendas(ctx context.Context) ([]models.Agenda, error) {
	var docs []agendaDoc
	if err := findSorted(ctx, s.agendas, bson.M{}, &docs); err != nil {
		return nil, fmt.Errorf("list agendas: %w", err)
	}

	agendas := make([]models.Agenda, 0, len(docs))
	for _, doc := range docs {
		agendas = append(agendas, doc.toModel())
	}
	return agendas, nil
}

func (s *Store) SaveSession(ctx context.Context, session models.Session) (models.Session, error) {
	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}

	votes := make([]voteDoc, 0, len(session.Votes))
	for _, v := range session.Votes {
		votes = append(votes, voteDoc(v))
	}

	err := upsert(ctx, s.sessions, session.ID, bson.M{
		"agenda_id":  session.AgendaID,
		"duration":   session.Duration,
		"start_date": session.StartDate,
		"end_date":   session.EndDate,
		"status":     session.Status,
		"votes":      votes,
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("upsert session: %w", err)
	}
	return session.Clone(), nil
}

func (s *Store) FindSession(ctx context.Context, id string) (models.Session, bool, error) {
	var doc sessionDoc
	err := s.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, fmt.Errorf("find session: %w", err)
	}
	return doc.toModel(), true, nil
}

func (s *Store) ListSessions(ctx context.Context) ([]models.Session, error) {
	return s.listSessions(ctx, bson.M{})
}

func (s *Store) ListSessionsByAgenda(ctx context.Context, agendaID string) ([]models.Session, error) {
	return s.listSessions(ctx, bson.M{"agenda_id": agendaID})
}

func (s *Store) listSessions(ctx context.Context, filter bson.M) ([]models.Session, error) {
	var docs []sessionDoc
	if err := findSorted(ctx, s.sessions, filter, &docs); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]models.Session, 0, len(docs))
	for _, doc := range docs {
		sessions = append(sessions, doc.toModel())
	}
	return sessions, nil
}

func findSorted(ctx context.Context, coll *mongo.Collection, filter bson.M, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (d agendaDoc) toModel() models.Agenda {
	return models.Agenda{
		ID:          d.ID,
		Description: d.Description,
		Status:      d.Status,
		Result:      d.Result,
	}
}

func (d sessionDoc) toModel() models.Session {
	votes := make([]models.Vote, 0, len(d.Votes))
	for _, v := range d.Votes {
		votes = append(votes, models.Vote(v))
	}
	return models.Session{
		ID:        d.ID,
		AgendaID:  d.AgendaID,
		Duration:  d.Duration,
		StartDate: d.StartDate.UTC(),
		EndDate:   d.EndDate.UTC(),
		Status:    d.Status,
		Votes:     votes,
	}
}

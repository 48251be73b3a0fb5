// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package redisstore persists agendas and sessions in Redis.
//
// Keys, relative to the store prefix:
//
//	agenda:<id>             hash (id, description, status, result)
//	session:<id>            JSON session document with its votes
//	agendas                 sorted set of agenda ids in creation order
//	sessions                sorted set of session ids in creation order
//	agenda:<id>:sessions    sorted set of the agenda's session ids
//	seq                     counter that scores the sorted sets
//
// Every save runs in a MULTI/EXEC transaction.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/voting-sessions/models"
)

type agendaRecord struct {
	ID          string `mapstructure:"id"`
	Description string `mapstructure:"description"`
	Status      string `mapstructure:"status"`
	Result      string `mapstructure:"result"`
}

type Store struct {
	rdb    *redis.Client
	prefix string
}

// Open parses a redis:// URL, connects and pings the server.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// New returns a store whose keys all start with prefix.
func New(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) agendaKey(id string) string         { return s.prefix + "agenda:" + id }
func (s *Store) agendaSessionsKey(id string) string { return s.prefix + "agenda:" + id + ":sessions" }
func (s *Store) sessionKey(id string) string        { return s.prefix + "session:" + id }
func (s *Store) agendasKey() string                 { return s.prefix + "agendas" }
func (s *Store) sessionsKey() string                { return s.prefix + "sessions" }
func (s *Store) seqKey() string                     { return s.prefix + "seq" }

// nextScore draws the ordering score for a record from a shared counter.
// ZADD NX keeps the first score, so updates do not move a record.
func (s *Store) nextScore(ctx context.Context) (float64, error) {
	n, err := s.rdb.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return float64(n), nil
}

func (s *Store) SaveAgenda(ctx context.Context, agenda models.Agenda) (models.Agenda, error) {
	if agenda.ID == "" {
		agenda.ID = uuid.NewString()
	}

	result := ""
	if agenda.Result != nil {
		result = *agenda.Result
	}

	score, err := s.nextScore(ctx)
	if err != nil {
		return models.Agenda{}, err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.agendaKey(agenda.ID), map[string]any{
			"id":          agenda.ID,
			"description": agenda.Description,
			"status":      agenda.Status,
			"result":      result,
		})
		pipe.ZAddNX(ctx, s.agendasKey(), redis.Z{Score: score, Member: agenda.ID})
		return nil
	})
	if err != nil {
		return models.Agenda{}, fmt.Errorf("save agenda: %w", err)
	}
	return agenda, nil
}

func (s *Store) FindAgenda(ctx context.Context, id string) (models.Agenda, bool, error) {
	data, err := s.rdb.HGetAll(ctx, s.agendaKey(id)).Result()
	if err != nil {
		return models.Agenda{}, false, fmt.Errorf("find agenda: %w", err)
	}
	if len(data) == 0 {
		return models.Agenda{}, false, nil
	}

	agenda, err := decodeAgenda(data)
	if err != nil {
		return models.Agenda{}, false, err
	}
	return agenda, true, nil
}

func (s *Store) ListAgendas(ctx context.Context) ([]models.Agenda, error) {
	ids, err := s.rdb.ZRange(ctx, s.agendasKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list agenda ids: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.agendaKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list agendas: %w", err)
	}

	agendas := make([]models.Agenda, 0, len(ids))
	for _, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			continue
		}
		agenda, err := decodeAgenda(data)
		if err != nil {
			return nil, err
		}
		agendas = append(agendas, agenda)
	}
	return agendas, nil
}

func (s *Store) SaveSession(ctx context.Context, session models.Session) (models.Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session = session.Clone()

	payload, err := json.Marshal(session)
	if err != nil {
		return models.Session{}, fmt.Errorf("encode session: %w", err)
	}

	score, err := s.nextScore(ctx)
	if err != nil {
		return models.Session{}, err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.sessionKey(session.ID), payload, 0)
		pipe.ZAddNX(ctx, s.sessionsKey(), redis.Z{Score: score, Member: session.ID})
		pipe.ZAddNX(ctx, s.agendaSessionsKey(session.AgendaID), redis.Z{Score: score, Member: session.ID})
		return nil
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func (s *Store) FindSession(ctx context.Context, id string) (models.Session, bool, error) {
	payload, err := s.rdb.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, fmt.Errorf("find session: %w", err)
	}

	session, err := decodeSession(payload)
	if err != nil {
		return models.Session{}, false, err
	}
	return session, true, nil
}

func (s *Store) ListSessions(ctx context.Context) ([]models.Session, error) {
	return s.listSessions(ctx, s.sessionsKey())
}

func (s *Store) ListSessionsByAgenda(ctx context.Context, agendaID string) ([]models.Session, error) {
	return s.listSessions(ctx, s.agendaSessionsKey(agendaID))
}

func (s *Store) listSessions(ctx context.Context, indexKey string) ([]models.Session, error) {
	ids, err := s.rdb.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list session ids: %w", err)
	}

	sessions := make([]models.Session, 0, len(ids))
	if len(ids) == 0 {
		return sessions, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.sessionKey(id)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	for _, v := range values {
		payload, ok := v.(string)
		if !ok {
			continue
		}
		session, err := decodeSession([]byte(payload))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func decodeAgenda(data map[string]string) (models.Agenda, error) {
	var rec agendaRecord
	if err := mapstructure.Decode(data, &rec); err != nil {
		return models.Agenda{}, fmt.Errorf("decode agenda: %w", err)
	}

	agenda := models.Agenda{
		ID:          rec.ID,
		Description: rec.Description,
		Status:      rec.Status,
	}
	if rec.Result != "" {
		result := rec.Result
		agenda.Result = &result
	}
	return agenda, nil
}

func decodeSession(payload []byte) (models.Session, error) {
	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	session.StartDate = session.StartDate.UTC()
	session.EndDate = session.EndDate.UTC()
	return session.Clone(), nil
}

package memory

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Store) insertOne(ctx context.Context, r *Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ErrDatabase
	}
	defer tx.Rollback(ctx)
	if err := insertOneTx(ctx, tx, r); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return ErrDatabase
	}
	return nil
}

func insertOneTx(ctx context.Context, tx pgx.Tx, r *Record) error {
	metaJSON, err := json.Marshal(r.Metadata)
	if err != nil {
		return ErrJSON
	}
	relJSON, err := json.Marshal(r.Relations)
	if err != nil {
		return ErrJSON
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO wyldlands.entity_memories
			(memory_id, entity_id, kind, content, created_at, last_accessed,
			 access_count, importance, decay_rate, context, metadata, relations,
			 embedding, tags)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		r.ID, r.EntityID, string(r.Kind), r.Content, r.CreatedAt, r.LastAccessed,
		r.AccessCount, r.Importance, r.DecayRate, r.Context, metaJSON, relJSON,
		r.Embedding, r.Tags)
	if err != nil {
		return ErrDatabase
	}
	for entity, role := range r.Involved {
		if _, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_memory_entities (memory_id, involved_entity_id, role)
			VALUES ($1,$2,$3)`, r.ID, entity, role); err != nil {
			return ErrDatabase
		}
	}
	return nil
}

func (s *Store) updateOne(ctx context.Context, r *Record) error {
	metaJSON, err := json.Marshal(r.Metadata)
	if err != nil {
		return ErrJSON
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err = s.pool.Exec(ctx, `
		UPDATE wyldlands.entity_memories
		SET content=$2, context=$3, metadata=$4, tags=$5, embedding=$6
		WHERE memory_id=$1`, r.ID, r.Content, r.Context, metaJSON, tags, r.Embedding)
	if err != nil {
		return ErrDatabase
	}
	return nil
}

func (s *Store) markAccessedDB(ctx context.Context, id uuid.UUID, r *Record) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE wyldlands.entity_memories
		SET last_accessed=$2, access_count=$3
		WHERE memory_id=$1`, id, r.LastAccessed, r.AccessCount)
	if err != nil {
		return ErrDatabase
	}
	return nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	var kind string
	var metaJSON, relJSON []byte
	if err := row.Scan(&r.ID, &r.EntityID, &kind, &r.Content, &r.CreatedAt, &r.LastAccessed,
		&r.AccessCount, &r.Importance, &r.DecayRate, &r.Context, &metaJSON, &relJSON,
		&r.Embedding, &r.Tags); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, ErrDatabase
	}
	r.Kind = Kind(kind)
	r.Metadata = map[string]string{}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &r.Metadata); err != nil {
			return nil, ErrJSON
		}
	}
	r.Relations = map[string]uuid.UUID{}
	if len(relJSON) > 0 {
		if err := json.Unmarshal(relJSON, &r.Relations); err != nil {
			return nil, ErrJSON
		}
	}
	return &r, nil
}

const selectColumns = `memory_id, entity_id, kind, content, created_at, last_accessed,
	access_count, importance, decay_rate, context, metadata, relations, embedding, tags`

func (s *Store) fetchOne(ctx context.Context, id uuid.UUID) (*Record, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+`
		FROM wyldlands.entity_memories WHERE memory_id = $1`, id)
	r, err := scanRecord(row)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateInvolved(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) hydrateInvolved(ctx context.Context, r *Record) error {
	rows, err := s.pool.Query(ctx, `
		SELECT involved_entity_id, role FROM wyldlands.entity_memory_entities
		WHERE memory_id = $1`, r.ID)
	if err != nil {
		return ErrDatabase
	}
	defer rows.Close()
	r.Involved = map[uuid.UUID]string{}
	for rows.Next() {
		var entity uuid.UUID
		var role string
		if err := rows.Scan(&entity, &role); err != nil {
			return ErrDatabase
		}
		r.Involved[entity] = role
	}
	return nil
}

func (s *Store) fetchAll(ctx context.Context, entity uuid.UUID) ([]*Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectColumns+`
		FROM wyldlands.entity_memories WHERE entity_id = $1 ORDER BY created_at DESC`, entity)
	if err != nil {
		return nil, ErrDatabase
	}
	defer rows.Close()
	var out []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	for _, r := range out {
		if err := s.hydrateInvolved(ctx, r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

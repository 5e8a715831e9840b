package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
)

// CreateCharacter inserts a new entity id, an entity_avatars row linking to
// the account, and default Name/Description/Body/Mind/Soul/Commandable
// components, all within a single transaction. Returns the new entity's
// stable id.
func (m *Manager) CreateCharacter(ctx context.Context, accountID uuid.UUID, displayName string) (uuid.UUID, error) {
	id := uuid.New()

	tx, err := m.db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO wyldlands.entities (uuid) VALUES ($1)`, id); err != nil {
		return uuid.Nil, fmt.Errorf("insert entities row: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO wyldlands.entity_avatars (entity_id, account_id, available) VALUES ($1,$2,true)`,
		id, accountID); err != nil {
		return uuid.Nil, fmt.Errorf("insert avatar row: %w", err)
	}

	name := component.NewName(displayName, displayName)
	if _, err := tx.Exec(ctx, `
		INSERT INTO wyldlands.entity_names (entity_id, display, keywords) VALUES ($1,$2,$3)`,
		id, name.Display, name.Keywords); err != nil {
		return uuid.Nil, fmt.Errorf("insert name row: %w", err)
	}

	desc := component.Description{Short: "an adventurer", Long: "A new adventurer, fresh into the world."}
	if _, err := tx.Exec(ctx, `
		INSERT INTO wyldlands.entity_descriptions (entity_id, short, long) VALUES ($1,$2,$3)`,
		id, desc.Short, desc.Long); err != nil {
		return uuid.Nil, fmt.Errorf("insert description row: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO wyldlands.entity_body_attributes
			(entity_id, offense, defense, finesse, health_cur, health_max, health_regen)
		VALUES ($1,10,10,10,100,100,1)`, id); err != nil {
		return uuid.Nil, fmt.Errorf("insert body attributes row: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO wyldlands.entity_mind_attributes
			(entity_id, offense, defense, finesse, energy_cur, energy_max, energy_regen)
		VALUES ($1,10,10,10,100,100,1)`, id); err != nil {
		return uuid.Nil, fmt.Errorf("insert mind attributes row: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO wyldlands.entity_soul_attributes
			(entity_id, offense, defense, finesse, energy_cur, energy_max, energy_regen)
		VALUES ($1,10,10,10,100,100,1)`, id); err != nil {
		return uuid.Nil, fmt.Errorf("insert soul attributes row: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO wyldlands.entity_commandables (entity_id, queue, max_queue_size)
		VALUES ($1,'{}',32)`, id); err != nil {
		return uuid.Nil, fmt.Errorf("insert commandable row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// FindAvatarEntity returns the entity id of the account's existing avatar,
// if one has already been created.
func (m *Manager) FindAvatarEntity(ctx context.Context, accountID uuid.UUID) (uuid.UUID, bool, error) {
	var entityID uuid.UUID
	err := m.db.Pool.QueryRow(ctx,
		`SELECT entity_id FROM wyldlands.entity_avatars WHERE account_id = $1 LIMIT 1`, accountID,
	).Scan(&entityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find avatar entity: %w", err)
	}
	return entityID, true, nil
}

// BindAvatar registers a freshly created character with a live world
// instance, returning its runtime handle — the clean replacement for the
// teacher's placeholder-id pattern (see DESIGN.md: character creation
// returns the real entity id rather than queuing a follow-up command).
func (m *Manager) BindAvatar(id uuid.UUID, world *ecs.World) ecs.EntityID {
	world.Lock()
	defer world.Unlock()
	h := world.CreateEntity()
	world.Registry().Bind(id, h)
	return h
}

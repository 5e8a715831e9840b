package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
)

// ref builds a component.Ref with only the stable id filled in; Handle is
// resolved lazily on first read, mirroring the registry's lazy-resolve
// contract (internal/world/component.Ref.Resolve).
func ref(id uuid.UUID) component.Ref {
	if id == uuid.Nil {
		return component.Ref{}
	}
	return component.Ref{StableID: id}
}

// Manager is the persistence manager: a pool, a dirty set, and the
// per-component save/load catalogue.
type Manager struct {
	db     *DB
	world  *ecs.World
	stores *component.Stores
	dirty  *DirtySet
}

func NewManager(db *DB, world *ecs.World, stores *component.Stores) *Manager {
	return &Manager{db: db, world: world, stores: stores, dirty: NewDirtySet()}
}

func (m *Manager) MarkDirty(id uuid.UUID) { m.dirty.Add(id) }

// SaveEntity implements the five-step save algorithm: read stable id, open
// one transaction, upsert entities row, upsert every attached component's
// table (plural components delete-then-insert their child rows), commit and
// clear the dirty flag.
func (m *Manager) SaveEntity(ctx context.Context, handle ecs.EntityID) error {
	m.world.RLock()
	stable, ok := m.world.Registry().StableID(handle)
	m.world.RUnlock()
	if !ok {
		return fmt.Errorf("save_entity: handle has no stable id")
	}

	tx, err := m.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO wyldlands.entities (uuid) VALUES ($1)
		ON CONFLICT (uuid) DO UPDATE SET updated_at = now()`, stable); err != nil {
		return fmt.Errorf("upsert entities row: %w", err)
	}

	m.world.RLock()
	defer m.world.RUnlock()
	for _, c := range catalogue {
		if err := c.save(ctx, tx, stable, m.stores, handle); err != nil {
			return fmt.Errorf("save %s: %w", c.name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	m.dirty.Remove(stable)
	return nil
}

// LoadEntity creates a bare entity bound to uuid, then runs every
// catalogue loader in order; each loader either attaches its component or
// is a no-op. An invariant violation on one component is logged by the
// caller and does not abort the rest of the entity.
func (m *Manager) LoadEntity(ctx context.Context, id uuid.UUID) (ecs.EntityID, []error) {
	m.world.Lock()
	handle := m.world.CreateEntity()
	m.world.Registry().Bind(id, handle)
	m.world.Unlock()

	var errs []error
	m.world.Lock()
	defer m.world.Unlock()
	for _, c := range catalogue {
		if err := c.load(ctx, m.db.Pool, m.stores, id, handle); err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", c.name, err))
		}
	}
	return handle, errs
}

type componentIO struct {
	name string
	save func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error
	load func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, so load steps
// can run either inside SaveEntity-style transactions or standalone.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgx.CommandTag, error)
}

var catalogue = []componentIO{
	nameIO, descriptionIO, locationIO, areaIO, roomIO, exitsIO,
	containerIO, containableIO, enterableIO, equipableIO, equipmentIO,
	weaponIO, armorIO, materialIO,
	bodyIO, mindIO, soulIO, skillsIO, combatantIO, aiIO, personalityIO,
	commandableIO, interactableIO, avatarIO,
}

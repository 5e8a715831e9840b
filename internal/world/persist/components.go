package persist

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
)

var nameIO = componentIO{
	name: "name",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		n, ok := s.Name.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_names (entity_id, display, keywords) VALUES ($1,$2,$3)
			ON CONFLICT (entity_id) DO UPDATE SET display = $2, keywords = $3`,
			stable, n.Display, n.Keywords)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var n component.Name
		err := q.QueryRow(ctx, `SELECT display, keywords FROM wyldlands.entity_names WHERE entity_id=$1`, stable).
			Scan(&n.Display, &n.Keywords)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Name.Set(h, &n)
		return nil
	},
}

var descriptionIO = componentIO{
	name: "description",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		d, ok := s.Description.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_descriptions (entity_id, short, long) VALUES ($1,$2,$3)
			ON CONFLICT (entity_id) DO UPDATE SET short=$2, long=$3`, stable, d.Short, d.Long)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var d component.Description
		err := q.QueryRow(ctx, `SELECT short, long FROM wyldlands.entity_descriptions WHERE entity_id=$1`, stable).
			Scan(&d.Short, &d.Long)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Description.Set(h, &d)
		return nil
	},
}

var locationIO = componentIO{
	name: "location",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		loc, ok := s.Location.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_locations (entity_id, area_id, room_id) VALUES ($1,$2,$3)
			ON CONFLICT (entity_id) DO UPDATE SET area_id=$2, room_id=$3`,
			stable, loc.AreaID.StableID, loc.RoomID.StableID)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var areaID, roomID uuid.UUID
		err := q.QueryRow(ctx, `SELECT area_id, room_id FROM wyldlands.entity_locations WHERE entity_id=$1`, stable).
			Scan(&areaID, &roomID)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Location.Set(h, &component.Location{AreaID: ref(areaID), RoomID: ref(roomID)})
		return nil
	},
}

var areaIO = componentIO{
	name: "area",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		a, ok := s.Area.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_areas (entity_id, area_kind, flags) VALUES ($1,$2,$3)
			ON CONFLICT (entity_id) DO UPDATE SET area_kind=$2, flags=$3`, stable, string(a.Kind), a.Flags)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var kind string
		var flags []string
		err := q.QueryRow(ctx, `SELECT area_kind, flags FROM wyldlands.entity_areas WHERE entity_id=$1`, stable).
			Scan(&kind, &flags)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Area.Set(h, &component.Area{Kind: component.AreaKind(kind), Flags: flags})
		return nil
	},
}

var roomIO = componentIO{
	name: "room",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		r, ok := s.Room.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_rooms (entity_id, area_id, flags) VALUES ($1,$2,$3)
			ON CONFLICT (entity_id) DO UPDATE SET area_id=$2, flags=$3`, stable, r.AreaID.StableID, r.Flags)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var areaID uuid.UUID
		var flags []string
		err := q.QueryRow(ctx, `SELECT area_id, flags FROM wyldlands.entity_rooms WHERE entity_id=$1`, stable).
			Scan(&areaID, &flags)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Room.Set(h, &component.Room{AreaID: ref(areaID), Flags: flags})
		return nil
	},
}

var exitsIO = componentIO{
	name: "exits",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		e, ok := s.Exits.Get(h)
		if !ok {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM wyldlands.entity_room_exits WHERE entity_id=$1`, stable); err != nil {
			return err
		}
		for _, x := range e.List {
			if _, err := tx.Exec(ctx, `
				INSERT INTO wyldlands.entity_room_exits
					(entity_id, dest_id, direction, closeable, closed, door_rating,
					 lockable, locked, unlock_code, lock_rating, transparent)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
				stable, x.Destination.StableID, string(x.Direction), x.Closeable, x.Closed,
				x.DoorRating, x.Lockable, x.Locked, x.UnlockCode, x.LockRating, x.Transparent); err != nil {
				return err
			}
		}
		return nil
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		rows, err := q.Query(ctx, `
			SELECT dest_id, direction, closeable, closed, door_rating,
			       lockable, locked, unlock_code, lock_rating, transparent
			FROM wyldlands.entity_room_exits WHERE entity_id=$1`, stable)
		if err != nil {
			return err
		}
		defer rows.Close()
		var list []component.ExitData
		for rows.Next() {
			var destID uuid.UUID
			var dir string
			var x component.ExitData
			if err := rows.Scan(&destID, &dir, &x.Closeable, &x.Closed, &x.DoorRating,
				&x.Lockable, &x.Locked, &x.UnlockCode, &x.LockRating, &x.Transparent); err != nil {
				return err
			}
			x.Destination = ref(destID)
			x.Direction = component.Direction(dir)
			list = append(list, x)
		}
		if len(list) == 0 {
			return nil
		}
		s.Exits.Set(h, &component.Exits{List: list})
		return nil
	},
}

var containerIO = componentIO{
	name: "container",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		c, ok := s.Container.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_containers
				(entity_id, capacity, closeable, closed, lockable, locked)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (entity_id) DO UPDATE SET
				capacity=$2, closeable=$3, closed=$4, lockable=$5, locked=$6`,
			stable, c.Capacity, c.Closeable, c.Closed, c.Lockable, c.Locked)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var c component.Container
		err := q.QueryRow(ctx, `
			SELECT capacity, closeable, closed, lockable, locked
			FROM wyldlands.entity_containers WHERE entity_id=$1`, stable).
			Scan(&c.Capacity, &c.Closeable, &c.Closed, &c.Lockable, &c.Locked)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Container.Set(h, &c)
		return nil
	},
}

var containableIO = componentIO{
	name: "containable",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		c, ok := s.Containable.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_containables (entity_id, weight, size_class, stackable, stack_size)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (entity_id) DO UPDATE SET weight=$2, size_class=$3, stackable=$4, stack_size=$5`,
			stable, c.Weight, string(c.Size), c.Stackable, c.StackSize)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var c component.Containable
		var size string
		err := q.QueryRow(ctx, `
			SELECT weight, size_class, stackable, stack_size
			FROM wyldlands.entity_containables WHERE entity_id=$1`, stable).
			Scan(&c.Weight, &size, &c.Stackable, &c.StackSize)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		c.Size = component.SizeClass(size)
		s.Containable.Set(h, &c)
		return nil
	},
}

var enterableIO = componentIO{
	name: "enterable",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		e, ok := s.Enterable.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_enterables (entity_id, dest_id, closeable, closed, lockable, locked)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (entity_id) DO UPDATE SET dest_id=$2, closeable=$3, closed=$4, lockable=$5, locked=$6`,
			stable, e.Destination.StableID, e.Closeable, e.Closed, e.Lockable, e.Locked)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var e component.Enterable
		var destID uuid.UUID
		err := q.QueryRow(ctx, `
			SELECT dest_id, closeable, closed, lockable, locked
			FROM wyldlands.entity_enterables WHERE entity_id=$1`, stable).
			Scan(&destID, &e.Closeable, &e.Closed, &e.Lockable, &e.Locked)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		e.Destination = ref(destID)
		s.Enterable.Set(h, &e)
		return nil
	},
}

var equipableIO = componentIO{
	name: "equipable",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		e, ok := s.Equipable.Get(h)
		if !ok {
			return nil
		}
		slots := make([]string, len(e.Slots))
		for i, sl := range e.Slots {
			slots[i] = string(sl)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_equipables (entity_id, slots) VALUES ($1,$2)
			ON CONFLICT (entity_id) DO UPDATE SET slots=$2`, stable, slots)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var slots []string
		err := q.QueryRow(ctx, `SELECT slots FROM wyldlands.entity_equipables WHERE entity_id=$1`, stable).Scan(&slots)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		out := make([]component.SlotKind, len(slots))
		for i, sl := range slots {
			out[i] = component.SlotKind(sl)
		}
		s.Equipable.Set(h, &component.Equipable{Slots: out})
		return nil
	},
}

var equipmentIO = componentIO{
	name: "equipment",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		e, ok := s.Equipment.Get(h)
		if !ok {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM wyldlands.entity_equipment WHERE entity_id=$1`, stable); err != nil {
			return err
		}
		for slot, itemRef := range e.Slots {
			if _, err := tx.Exec(ctx, `
				INSERT INTO wyldlands.entity_equipment (entity_id, slot, item_id) VALUES ($1,$2,$3)`,
				stable, string(slot), itemRef.StableID); err != nil {
				return err
			}
		}
		return nil
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		rows, err := q.Query(ctx, `SELECT slot, item_id FROM wyldlands.entity_equipment WHERE entity_id=$1`, stable)
		if err != nil {
			return err
		}
		defer rows.Close()
		eq := component.NewEquipment()
		found := false
		for rows.Next() {
			var slot string
			var itemID uuid.UUID
			if err := rows.Scan(&slot, &itemID); err != nil {
				return err
			}
			eq.Slots[component.SlotKind(slot)] = ref(itemID)
			found = true
		}
		if !found {
			return nil
		}
		s.Equipment.Set(h, &eq)
		return nil
	},
}

var weaponIO = componentIO{
	name: "weapon",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		w, ok := s.Weapon.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_weapons
				(entity_id, damage_min, damage_max, damage_cap, damage_kind, attack_speed, range)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (entity_id) DO UPDATE SET
				damage_min=$2, damage_max=$3, damage_cap=$4, damage_kind=$5, attack_speed=$6, range=$7`,
			stable, w.Min, w.Max, w.Cap, string(w.Kind), w.AttackSpeed, w.Range)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var w component.Weapon
		var kind string
		err := q.QueryRow(ctx, `
			SELECT damage_min, damage_max, damage_cap, damage_kind, attack_speed, range
			FROM wyldlands.entity_weapons WHERE entity_id=$1`, stable).
			Scan(&w.Min, &w.Max, &w.Cap, &kind, &w.AttackSpeed, &w.Range)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		w.Kind = component.DamageKind(kind)
		s.Weapon.Set(h, &w)
		return nil
	},
}

var armorIO = componentIO{
	name: "armor",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		a, ok := s.Armor.Get(h)
		if !ok {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM wyldlands.entity_armor_defense WHERE entity_id=$1`, stable); err != nil {
			return err
		}
		for kind, defense := range a.Defense {
			if _, err := tx.Exec(ctx, `
				INSERT INTO wyldlands.entity_armor_defense (entity_id, damage_kind, defense) VALUES ($1,$2,$3)`,
				stable, string(kind), defense); err != nil {
				return err
			}
		}
		return nil
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		rows, err := q.Query(ctx, `SELECT damage_kind, defense FROM wyldlands.entity_armor_defense WHERE entity_id=$1`, stable)
		if err != nil {
			return err
		}
		defer rows.Close()
		a := component.NewArmor()
		found := false
		for rows.Next() {
			var kind string
			var defense int
			if err := rows.Scan(&kind, &defense); err != nil {
				return err
			}
			a.Defense[component.DamageKind(kind)] = defense
			found = true
		}
		if !found {
			return nil
		}
		s.Armor.Set(h, &a)
		return nil
	},
}

var materialIO = componentIO{
	name: "material",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		m, ok := s.Material.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_materials (entity_id, material_kind) VALUES ($1,$2)
			ON CONFLICT (entity_id) DO UPDATE SET material_kind=$2`, stable, string(m.Kind))
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var kind string
		err := q.QueryRow(ctx, `SELECT material_kind FROM wyldlands.entity_materials WHERE entity_id=$1`, stable).Scan(&kind)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Material.Set(h, &component.Material{Kind: component.MaterialKind(kind)})
		return nil
	},
}

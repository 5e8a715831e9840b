package persist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
)

func poolColumns(p component.Pool) (float64, float64, float64) {
	return p.Current, p.Max, p.Regen
}

var bodyIO = componentIO{
	name: "body_attributes",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		b, ok := s.Body.Get(h)
		if !ok {
			return nil
		}
		cur, max, regen := poolColumns(b.Health)
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_body_attributes
				(entity_id, offense, defense, finesse, health_cur, health_max, health_regen)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (entity_id) DO UPDATE SET
				offense=$2, defense=$3, finesse=$4, health_cur=$5, health_max=$6, health_regen=$7`,
			stable, b.Offense, b.Defense, b.Finesse, cur, max, regen)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var b component.BodyAttributes
		err := q.QueryRow(ctx, `
			SELECT offense, defense, finesse, health_cur, health_max, health_regen
			FROM wyldlands.entity_body_attributes WHERE entity_id=$1`, stable).
			Scan(&b.Offense, &b.Defense, &b.Finesse, &b.Health.Current, &b.Health.Max, &b.Health.Regen)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Body.Set(h, &b)
		return nil
	},
}

var mindIO = componentIO{
	name: "mind_attributes",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		m, ok := s.Mind.Get(h)
		if !ok {
			return nil
		}
		cur, max, regen := poolColumns(m.Energy)
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_mind_attributes
				(entity_id, offense, defense, finesse, energy_cur, energy_max, energy_regen)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (entity_id) DO UPDATE SET
				offense=$2, defense=$3, finesse=$4, energy_cur=$5, energy_max=$6, energy_regen=$7`,
			stable, m.Offense, m.Defense, m.Finesse, cur, max, regen)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var m component.MindAttributes
		err := q.QueryRow(ctx, `
			SELECT offense, defense, finesse, energy_cur, energy_max, energy_regen
			FROM wyldlands.entity_mind_attributes WHERE entity_id=$1`, stable).
			Scan(&m.Offense, &m.Defense, &m.Finesse, &m.Energy.Current, &m.Energy.Max, &m.Energy.Regen)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Mind.Set(h, &m)
		return nil
	},
}

var soulIO = componentIO{
	name: "soul_attributes",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		sl, ok := s.Soul.Get(h)
		if !ok {
			return nil
		}
		cur, max, regen := poolColumns(sl.Energy)
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_soul_attributes
				(entity_id, offense, defense, finesse, energy_cur, energy_max, energy_regen)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (entity_id) DO UPDATE SET
				offense=$2, defense=$3, finesse=$4, energy_cur=$5, energy_max=$6, energy_regen=$7`,
			stable, sl.Offense, sl.Defense, sl.Finesse, cur, max, regen)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var sl component.SoulAttributes
		err := q.QueryRow(ctx, `
			SELECT offense, defense, finesse, energy_cur, energy_max, energy_regen
			FROM wyldlands.entity_soul_attributes WHERE entity_id=$1`, stable).
			Scan(&sl.Offense, &sl.Defense, &sl.Finesse, &sl.Energy.Current, &sl.Energy.Max, &sl.Energy.Regen)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Soul.Set(h, &sl)
		return nil
	},
}

var skillsIO = componentIO{
	name: "skills",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		sk, ok := s.Skills.Get(h)
		if !ok {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM wyldlands.entity_skills WHERE entity_id=$1`, stable); err != nil {
			return err
		}
		for skillName, v := range sk.Values {
			if _, err := tx.Exec(ctx, `
				INSERT INTO wyldlands.entity_skills (entity_id, skill_name, experience, knowledge)
				VALUES ($1,$2,$3,$4)`, stable, skillName, v.Experience, v.Knowledge); err != nil {
				return err
			}
		}
		return nil
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		rows, err := q.Query(ctx, `SELECT skill_name, experience, knowledge FROM wyldlands.entity_skills WHERE entity_id=$1`, stable)
		if err != nil {
			return err
		}
		defer rows.Close()
		sk := component.NewSkills()
		found := false
		for rows.Next() {
			var name string
			var v component.SkillValue
			if err := rows.Scan(&name, &v.Experience, &v.Knowledge); err != nil {
				return err
			}
			sk.Values[name] = v
			found = true
		}
		if !found {
			return nil
		}
		s.Skills.Set(h, &sk)
		return nil
	},
}

var combatantIO = componentIO{
	name: "combatant",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		c, ok := s.Combatant.Get(h)
		if !ok {
			return nil
		}
		var targetID *uuid.UUID
		if !c.Target.IsZero() {
			targetID = &c.Target.StableID
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_combatants (entity_id, in_combat, target_id, initiative, defending)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (entity_id) DO UPDATE SET in_combat=$2, target_id=$3, initiative=$4, defending=$5`,
			stable, c.InCombat, targetID, c.Initiative, c.Defending)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		c := component.NewCombatant()
		var targetID *uuid.UUID
		err := q.QueryRow(ctx, `
			SELECT in_combat, target_id, initiative, defending
			FROM wyldlands.entity_combatants WHERE entity_id=$1`, stable).
			Scan(&c.InCombat, &targetID, &c.Initiative, &c.Defending)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		if targetID != nil {
			c.Target = ref(*targetID)
		}
		s.Combatant.Set(h, &c)
		return nil
	},
}

var aiIO = componentIO{
	name: "ai_controller",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		a, ok := s.AI.Get(h)
		if !ok {
			return nil
		}
		var stateTarget *uuid.UUID
		if !a.StateTarget.IsZero() {
			stateTarget = &a.StateTarget.StableID
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_ai_controllers
				(entity_id, behavior, goal, state, state_target_id, update_interval, update_timer)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (entity_id) DO UPDATE SET
				behavior=$2, goal=$3, state=$4, state_target_id=$5, update_interval=$6, update_timer=$7`,
			stable, string(a.Behavior), a.Goal, a.State, stateTarget,
			a.UpdateInterval.Seconds(), a.UpdateTimer.Seconds())
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var a component.AIController
		var behavior string
		var stateTarget *uuid.UUID
		var intervalSec, timerSec float64
		err := q.QueryRow(ctx, `
			SELECT behavior, goal, state, state_target_id, update_interval, update_timer
			FROM wyldlands.entity_ai_controllers WHERE entity_id=$1`, stable).
			Scan(&behavior, &a.Goal, &a.State, &stateTarget, &intervalSec, &timerSec)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		a.Behavior = component.AIBehavior(behavior)
		if stateTarget != nil {
			a.StateTarget = ref(*stateTarget)
		}
		a.UpdateInterval = time.Duration(intervalSec * float64(time.Second))
		a.UpdateTimer = time.Duration(timerSec * float64(time.Second))
		s.AI.Set(h, &a)
		return nil
	},
}

var personalityIO = componentIO{
	name: "personality",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		p, ok := s.Personality.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_personalities (entity_id, background, speaking_style) VALUES ($1,$2,$3)
			ON CONFLICT (entity_id) DO UPDATE SET background=$2, speaking_style=$3`,
			stable, p.Background, p.SpeakingStyle)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var p component.Personality
		err := q.QueryRow(ctx, `
			SELECT background, speaking_style FROM wyldlands.entity_personalities WHERE entity_id=$1`, stable).
			Scan(&p.Background, &p.SpeakingStyle)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Personality.Set(h, &p)
		return nil
	},
}

var commandableIO = componentIO{
	name: "commandable",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		c, ok := s.Commandable.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_commandables (entity_id, queue, max_queue_size) VALUES ($1,$2,$3)
			ON CONFLICT (entity_id) DO UPDATE SET queue=$2, max_queue_size=$3`,
			stable, c.Queue, c.MaxQueueSize)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var c component.Commandable
		err := q.QueryRow(ctx, `
			SELECT queue, max_queue_size FROM wyldlands.entity_commandables WHERE entity_id=$1`, stable).
			Scan(&c.Queue, &c.MaxQueueSize)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Commandable.Set(h, &c)
		return nil
	},
}

var interactableIO = componentIO{
	name: "interactable",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		if _, ok := s.Interactable.Get(h); !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_interactables (entity_id) VALUES ($1)
			ON CONFLICT (entity_id) DO NOTHING`, stable)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var exists bool
		err := q.QueryRow(ctx, `SELECT true FROM wyldlands.entity_interactables WHERE entity_id=$1`, stable).Scan(&exists)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		s.Interactable.Set(h, &component.Interactable{})
		return nil
	},
}

var avatarIO = componentIO{
	name: "avatar",
	save: func(ctx context.Context, tx pgx.Tx, stable uuid.UUID, s *component.Stores, h ecs.EntityID) error {
		a, ok := s.Avatar.Get(h)
		if !ok {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO wyldlands.entity_avatars (entity_id, account_id, available) VALUES ($1,$2,$3)
			ON CONFLICT (entity_id) DO UPDATE SET account_id=$2, available=$3`,
			stable, a.AccountID.StableID, a.Available)
		return err
	},
	load: func(ctx context.Context, q pgxQuerier, s *component.Stores, stable uuid.UUID, h ecs.EntityID) error {
		var a component.Avatar
		var accountID uuid.UUID
		err := q.QueryRow(ctx, `
			SELECT account_id, available FROM wyldlands.entity_avatars WHERE entity_id=$1`, stable).
			Scan(&accountID, &a.Available)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		a.AccountID = ref(accountID)
		s.Avatar.Set(h, &a)
		return nil
	},
}

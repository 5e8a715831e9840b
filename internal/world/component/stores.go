package component

import "github.com/huhlig/wyldlands-go/internal/world/ecs"

// Stores bundles one ecs.Store[T] per component in the catalogue (spec §3).
// It is the single place a system reaches for component data; World itself
// only arbitrates the lock around it.
type Stores struct {
	Persistent  *ecs.Store[Persistent]
	Name        *ecs.Store[Name]
	Description *ecs.Store[Description]
	Location    *ecs.Store[Location]
	Area        *ecs.Store[Area]
	Room        *ecs.Store[Room]
	Exits       *ecs.Store[Exits]
	Container   *ecs.Store[Container]
	Containable *ecs.Store[Containable]
	Enterable   *ecs.Store[Enterable]
	Equipable   *ecs.Store[Equipable]
	Equipment   *ecs.Store[Equipment]
	Weapon      *ecs.Store[Weapon]
	Armor       *ecs.Store[Armor]
	Material    *ecs.Store[Material]
	Body        *ecs.Store[BodyAttributes]
	Mind        *ecs.Store[MindAttributes]
	Soul        *ecs.Store[SoulAttributes]
	Skills      *ecs.Store[Skills]
	Combatant   *ecs.Store[Combatant]
	AI          *ecs.Store[AIController]
	Personality *ecs.Store[Personality]
	Commandable *ecs.Store[Commandable]
	Interactable *ecs.Store[Interactable]
	Avatar      *ecs.Store[Avatar]
}

// NewStores allocates every component store and registers each with the
// registry so a destroyed entity's data is cleared everywhere.
func NewStores(reg *ecs.Registry) *Stores {
	s := &Stores{
		Persistent:   ecs.NewStore[Persistent](),
		Name:         ecs.NewStore[Name](),
		Description:  ecs.NewStore[Description](),
		Location:     ecs.NewStore[Location](),
		Area:         ecs.NewStore[Area](),
		Room:         ecs.NewStore[Room](),
		Exits:        ecs.NewStore[Exits](),
		Container:    ecs.NewStore[Container](),
		Containable:  ecs.NewStore[Containable](),
		Enterable:    ecs.NewStore[Enterable](),
		Equipable:    ecs.NewStore[Equipable](),
		Equipment:    ecs.NewStore[Equipment](),
		Weapon:       ecs.NewStore[Weapon](),
		Armor:        ecs.NewStore[Armor](),
		Material:     ecs.NewStore[Material](),
		Body:         ecs.NewStore[BodyAttributes](),
		Mind:         ecs.NewStore[MindAttributes](),
		Soul:         ecs.NewStore[SoulAttributes](),
		Skills:       ecs.NewStore[Skills](),
		Combatant:    ecs.NewStore[Combatant](),
		AI:           ecs.NewStore[AIController](),
		Personality:  ecs.NewStore[Personality](),
		Commandable:  ecs.NewStore[Commandable](),
		Interactable: ecs.NewStore[Interactable](),
		Avatar:       ecs.NewStore[Avatar](),
	}
	for _, r := range []ecs.Removable{
		s.Persistent, s.Name, s.Description, s.Location, s.Area, s.Room, s.Exits,
		s.Container, s.Containable, s.Enterable, s.Equipable, s.Equipment,
		s.Weapon, s.Armor, s.Material, s.Body, s.Mind, s.Soul, s.Skills,
		s.Combatant, s.AI, s.Personality, s.Commandable, s.Interactable, s.Avatar,
	} {
		reg.RegisterStore(r)
	}
	return s
}

package component

// AreaKind enumerates the kinds of area an Area component may describe
// (spec §3). Stored as its string representation (spec §6).
type AreaKind string

const (
	AreaOverworld AreaKind = "overworld"
	AreaVehicle   AreaKind = "vehicle"
	AreaBuilding  AreaKind = "building"
	AreaDungeon   AreaKind = "dungeon"
)

// RoomFlag enumerates boolean facts about a room.
type RoomFlag string

const (
	RoomFlagBreathable RoomFlag = "breathable"
	RoomFlagDark       RoomFlag = "dark"
	RoomFlagIndoors    RoomFlag = "indoors"
	RoomFlagSafe       RoomFlag = "safe"
)

// Area is the area-level component. Flags is a set, represented as a slice
// with no duplicates (small N, ordering doesn't matter for membership).
type Area struct {
	Kind  AreaKind
	Flags []string
}

func (a Area) HasFlag(f string) bool {
	for _, v := range a.Flags {
		if v == f {
			return true
		}
	}
	return false
}

// Room is attached to a room entity. AreaID must resolve to an entity
// carrying an Area component (spec §3 invariant).
type Room struct {
	AreaID Ref
	Flags  []string
}

func (r Room) HasFlag(f string) bool {
	for _, v := range r.Flags {
		if v == f {
			return true
		}
	}
	return false
}

// Location is (area id, room id). RoomID must resolve to an entity with a
// Room component, and AreaID must equal that room's Room.AreaID.StableID
// (spec §3 invariant).
type Location struct {
	AreaID Ref
	RoomID Ref
}

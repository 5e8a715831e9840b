package command

import (
	"errors"

	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
)

// ErrNoSuchExit, ErrDoorClosed, and ErrDoorLocked are the movement failure
// modes of spec §4.5 step 3.
var (
	ErrNoSuchExit = errors.New("you cannot go that way")
	ErrDoorClosed = errors.New("the door is closed")
	ErrDoorLocked = errors.New("the door is locked")
)

// AttemptMove implements spec §4.5: normalise direction, read the current
// room's exits under a read lock, check closed/locked, then resolve the
// destination and the entity's Location pointer under a second read lock.
// The in-place mutation of Location takes the exclusive write lock, held
// only for the two field assignments, so readers never see a half-updated
// Location (the map entry's pointer identity does not change, only its
// contents).
func AttemptMove(deps *Deps, entity ecs.EntityID, token string) (ecs.EntityID, error) {
	dir, ok := component.ParseDirection(token)
	if !ok {
		return 0, ErrNoSuchExit
	}

	deps.World.RLock()
	loc, ok := deps.Stores.Location.Get(entity)
	if !ok {
		deps.World.RUnlock()
		return 0, ErrNoSuchExit
	}
	if !loc.RoomID.Resolve(deps.World.Registry()) {
		deps.World.RUnlock()
		return 0, ErrNoSuchExit
	}
	roomHandle := loc.RoomID.Handle
	exits, ok := deps.Stores.Exits.Get(roomHandle)
	if !ok {
		deps.World.RUnlock()
		return 0, ErrNoSuchExit
	}
	exit, found := exits.Find(dir)
	deps.World.RUnlock()

	if !found {
		return 0, ErrNoSuchExit
	}
	if exit.Closeable && exit.Closed {
		return 0, ErrDoorClosed
	}
	if exit.Lockable && exit.Locked {
		return 0, ErrDoorLocked
	}

	if !exit.Destination.Resolve(deps.World.Registry()) {
		return 0, ErrNoSuchExit
	}
	destHandle := exit.Destination.Handle

	deps.World.RLock()
	destRoom, ok := deps.Stores.Room.Get(destHandle)
	var destAreaRef component.Ref
	if ok {
		destAreaRef = destRoom.AreaID
	}
	newLoc, has := deps.Stores.Location.Get(entity)
	deps.World.RUnlock()

	if !ok || !has {
		return 0, ErrNoSuchExit
	}

	deps.World.Lock()
	newLoc.AreaID = destAreaRef
	newLoc.RoomID = exit.Destination
	deps.World.Unlock()

	return destHandle, nil
}

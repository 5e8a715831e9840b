package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
	"github.com/huhlig/wyldlands-go/internal/world/memory"
)

func newStableID() uuid.UUID { return uuid.New() }

func role(r Role) *Role { return &r }

// RegisterCore registers the full normative verb surface of spec §4.4. Verbs
// whose deep game-content logic is explicitly out of scope (spec §1: "the
// admin/builder content-authoring verbs beyond their dispatch") are
// registered with a minimal handler that still exercises role gating, help
// generation, and the subcommand fallback — the dispatch contract under
// test, not the content pipeline behind it.
func RegisterCore(reg *Registry) {
	reg.Register(Verb{Canonical: "look", Aliases: []string{"l"}, HelpText: "Look around, or at a target.", Handler: handleLook})
	reg.Register(Verb{Canonical: "inventory", Aliases: []string{"i", "inv"}, HelpText: "List what you are carrying.", Handler: handleInventory})
	reg.Register(Verb{Canonical: "say", Aliases: []string{"'"}, HelpText: "Say something to the room.", Handler: handleBroadcast("say")})
	reg.Register(Verb{Canonical: "yell", Aliases: []string{"\""}, HelpText: "Yell something to the area.", Handler: handleBroadcast("yell")})
	reg.Register(Verb{Canonical: "emote", Aliases: []string{"em", ":"}, HelpText: "Emote an action.", Handler: handleBroadcast("emote")})
	reg.Register(Verb{Canonical: "score", Aliases: []string{"stats"}, HelpText: "Show your character sheet.", Handler: handleScore})
	reg.Register(Verb{Canonical: "attack", Aliases: []string{"kill", "k"}, HelpText: "Attack a target.", Handler: handleCombatStub("attack")})
	reg.Register(Verb{Canonical: "defend", Aliases: []string{"def"}, HelpText: "Take a defensive stance.", Handler: handleCombatStub("defend")})
	reg.Register(Verb{Canonical: "flee", Aliases: []string{"run"}, HelpText: "Flee from combat.", Handler: handleCombatStub("flee")})
	reg.Register(Verb{Canonical: "combat", Aliases: []string{"c"}, HelpText: "Show combat status.", Handler: handleCombatStub("combat")})
	reg.Register(Verb{Canonical: "exit", Aliases: []string{"quit", "logoff", "logout"}, HelpText: "Save and return to character select.", Handler: handleExit})
	registerMovement(reg)
	registerBuilderAdmin(reg)
	registerMemory(reg)
}

func registerMemory(reg *Registry) {
	storyteller := role(Storyteller)
	admin := role(Admin)
	reg.Register(Verb{
		Canonical: "remember", HelpText: "remember <text> — retain an observation memory for yourself.",
		RequiredRole: storyteller, Bucket: BucketStoryteller, Handler: handleRemember,
	})
	reg.Register(Verb{
		Canonical: "recall", HelpText: "recall <query> — recall memories relevant to a query.",
		RequiredRole: storyteller, Bucket: BucketStoryteller, Handler: handleRecall,
	})
	reg.Register(Verb{
		Canonical: "reflect", HelpText: "reflect <query> — form a narrative summary over recalled memories.",
		RequiredRole: storyteller, Bucket: BucketStoryteller, Handler: handleReflect,
	})
	reg.Register(Verb{
		Canonical: "forget", HelpText: "forget <memory-id> — delete a memory permanently.",
		RequiredRole: admin, Bucket: BucketAdmin, Handler: handleForget,
	})
}

func handleRemember(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	if ctx.Memory == nil {
		return "", fmt.Errorf("memory store unavailable")
	}
	if len(args) == 0 {
		return "", fmt.Errorf("remember what?")
	}
	stable, ok := ctx.World.Registry().StableID(entity)
	if !ok {
		return "", fmt.Errorf("you are nowhere")
	}
	text := strings.Join(args, " ")
	id, err := ctx.Memory.Retain(context.Background(), stable, memory.KindObservation, text, time.Now(), "", nil, nil, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("You commit this to memory. (%s)", id), nil
}

func handleRecall(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	if ctx.Memory == nil {
		return "", fmt.Errorf("memory store unavailable")
	}
	if len(args) == 0 {
		return "", fmt.Errorf("recall what?")
	}
	stable, ok := ctx.World.Registry().StableID(entity)
	if !ok {
		return "", fmt.Errorf("you are nowhere")
	}
	nodes, err := ctx.Memory.Recall(context.Background(), stable, strings.Join(args, " "), nil, nil, memory.TagAny)
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		return "Nothing comes to mind.", nil
	}
	var b strings.Builder
	for _, n := range nodes {
		fmt.Fprintf(&b, "- %s\r\n", n.Record.Content)
	}
	return b.String(), nil
}

func handleReflect(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	if ctx.Memory == nil {
		return "", fmt.Errorf("memory store unavailable")
	}
	if ctx.LLM == nil {
		return "", fmt.Errorf("no language model configured for reflection")
	}
	if len(args) == 0 {
		return "", fmt.Errorf("reflect on what?")
	}
	stable, ok := ctx.World.Registry().StableID(entity)
	if !ok {
		return "", fmt.Errorf("you are nowhere")
	}
	summary, _, err := ctx.Memory.Reflect(context.Background(), stable, strings.Join(args, " "), "", nil, memory.TagAny, ctx.LLM)
	if err != nil {
		return "", err
	}
	return summary, nil
}

func handleForget(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	if ctx.Memory == nil {
		return "", fmt.Errorf("memory store unavailable")
	}
	if len(args) != 1 {
		return "", fmt.Errorf("usage: forget <memory-id>")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return "", fmt.Errorf("invalid memory id")
	}
	if err := ctx.Memory.DeleteMemory(context.Background(), id); err != nil {
		return "", err
	}
	return "Forgotten.", nil
}

func registerMovement(reg *Registry) {
	dirs := []struct {
		canonical string
		aliases   []string
	}{
		{"north", []string{"n"}}, {"south", []string{"s"}},
		{"east", []string{"e"}}, {"west", []string{"w"}},
		{"up", []string{"u"}}, {"down", []string{"d"}},
		{"northeast", []string{"ne"}}, {"northwest", []string{"nw"}},
		{"southeast", []string{"se"}}, {"southwest", []string{"sw"}},
	}
	for _, d := range dirs {
		dir := d.canonical
		reg.Register(Verb{
			Canonical: dir,
			Aliases:   d.aliases,
			HelpText:  "Move " + dir + ".",
			Bucket:    BucketMovement,
			Handler: func(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
				dest, err := AttemptMove(ctx.Deps, entity, canonical)
				if err != nil {
					return "", err
				}
				return handleLook(ctx, dest, "look", nil)
			},
		})
	}
}

func registerBuilderAdmin(reg *Registry) {
	builder := role(Builder)
	storyteller := role(Storyteller)
	admin := role(Admin)

	builderRoots := map[string][]string{
		"area": {"create", "list", "edit", "delete", "info", "search"},
		"room": {"create", "list", "goto", "edit", "deleteall", "search", "generate"},
		"exit": {"add", "remove", "list", "edit"},
		"item": {"create", "edit", "clone", "list", "info", "spawn", "templates", "generate"},
	}
	for root, subs := range builderRoots {
		for _, sub := range subs {
			canon := root + " " + sub
			reg.Register(Verb{
				Canonical:    canon,
				HelpText:     "Builder: " + canon + ".",
				RequiredRole: builder,
				Bucket:       BucketBuilder,
				Handler:      contentStub(canon),
			})
		}
	}
	reg.Register(Verb{
		Canonical: "dig", HelpText: "dig <dir> <area|inline> <name> [oneway] — create a room and connecting exits.",
		RequiredRole: builder, Bucket: BucketBuilder, Handler: handleDig,
	})

	for _, sub := range []string{"create", "list", "edit", "dialogue", "goap", "generate"} {
		canon := "npc " + sub
		reg.Register(Verb{
			Canonical: canon, HelpText: "Storyteller: " + canon + ".",
			RequiredRole: storyteller, Bucket: BucketStoryteller, Handler: contentStub(canon),
		})
	}

	for _, sub := range []string{"inspect", "list", "save", "reload"} {
		canon := "world " + sub
		reg.Register(Verb{
			Canonical: canon, HelpText: "Admin: " + canon + ".",
			RequiredRole: admin, Bucket: BucketAdmin, Handler: handleWorldAdmin,
		})
	}
}

func contentStub(canon string) Handler {
	return func(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
		return fmt.Sprintf("%s %s", canon, strings.Join(args, " ")), nil
	}
}

func handleWorldAdmin(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	if canonical != "world inspect" {
		return canonical, nil
	}
	stats := ctx.Registry.Stats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Command invocation counts:\r\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-20s %d\r\n", name, stats[name].Invocations)
	}
	return b.String(), nil
}

func handleLook(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	deps := ctx.Deps
	deps.World.RLock()
	defer deps.World.RUnlock()

	loc, ok := deps.Stores.Location.Get(entity)
	if !ok {
		return "You are nowhere.", nil
	}
	if !loc.RoomID.Resolve(deps.World.Registry()) {
		return "The room you are in does not exist.", nil
	}
	roomHandle := loc.RoomID.Handle

	if len(args) > 0 {
		target := strings.ToLower(strings.Join(args, " "))
		found := "You do not see that here."
		deps.Stores.Name.Each(func(id ecs.EntityID, n *component.Name) {
			if n.Matches(target) {
				if d, ok := deps.Stores.Description.Get(id); ok {
					found = d.Long
				}
			}
		})
		return found, nil
	}

	var b strings.Builder
	if name, ok := deps.Stores.Name.Get(roomHandle); ok {
		b.WriteString(name.Display)
		b.WriteString("\r\n")
	}
	if desc, ok := deps.Stores.Description.Get(roomHandle); ok {
		b.WriteString(desc.Long)
		b.WriteString("\r\n")
	}
	if exits, ok := deps.Stores.Exits.Get(roomHandle); ok && len(exits.List) > 0 {
		b.WriteString("Exits: ")
		parts := make([]string, 0, len(exits.List))
		for _, e := range exits.List {
			parts = append(parts, string(e.Direction))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\r\n")
	}
	return b.String(), nil
}

func handleInventory(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	ctx.World.RLock()
	defer ctx.World.RUnlock()
	eq, ok := ctx.Stores.Equipment.Get(entity)
	if !ok || len(eq.Slots) == 0 {
		return "You are not carrying anything.", nil
	}
	var parts []string
	for slot, ref := range eq.Slots {
		if name, ok := ctx.Stores.Name.Get(ref.Handle); ok {
			parts = append(parts, fmt.Sprintf("%s: %s", slot, name.Display))
		}
	}
	return strings.Join(parts, "\r\n"), nil
}

func handleBroadcast(kind string) Handler {
	return func(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%s what?", kind)
		}
		return fmt.Sprintf("You %s: %s", kind, strings.Join(args, " ")), nil
	}
}

func handleScore(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	ctx.World.RLock()
	defer ctx.World.RUnlock()
	body, hasBody := ctx.Stores.Body.Get(entity)
	if !hasBody {
		return "You have no body.", nil
	}
	return fmt.Sprintf("Health: %.0f/%.0f", body.Health.Current, body.Health.Max), nil
}

func handleCombatStub(verb string) Handler {
	return func(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
		return fmt.Sprintf("You %s.", verb), nil
	}
}

func handleExit(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	if stable, ok := ctx.World.Registry().StableID(entity); ok && ctx.Persist != nil {
		ctx.Persist.MarkDirty(stable)
	}
	return "Goodbye!", nil
}

func handleDig(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error) {
	if len(args) < 3 {
		return "", fmt.Errorf("usage: dig <dir> <area|inline> <name> [oneway]")
	}
	dir, ok := component.ParseDirection(args[0])
	if !ok {
		return "", ErrNoSuchExit
	}
	oneway := len(args) > 3 && strings.EqualFold(args[len(args)-1], "oneway")
	nameArgs := args[2:]
	if oneway {
		nameArgs = args[2 : len(args)-1]
	}
	roomName := strings.Join(nameArgs, " ")

	ctx.World.RLock()
	loc, hasLoc := ctx.Stores.Location.Get(entity)
	ctx.World.RUnlock()
	if !hasLoc {
		return "", fmt.Errorf("you are nowhere")
	}

	ctx.World.Lock()
	newRoom := ctx.World.CreateEntity()
	newStable := newStableID()
	ctx.World.Registry().Bind(newStable, newRoom)
	ctx.Stores.Room.Set(newRoom, &component.Room{AreaID: loc.AreaID})
	ctx.Stores.Name.Set(newRoom, &component.Name{Display: roomName})
	ctx.Stores.Exits.Set(newRoom, &component.Exits{})

	if !loc.RoomID.Resolve(ctx.World.Registry()) {
		ctx.World.Unlock()
		return "", fmt.Errorf("current room missing")
	}
	currentExits, ok := ctx.Stores.Exits.Get(loc.RoomID.Handle)
	if !ok {
		currentExits = &component.Exits{}
		ctx.Stores.Exits.Set(loc.RoomID.Handle, currentExits)
	}
	currentExits.List = append(currentExits.List, component.ExitData{
		Destination: component.Ref{StableID: newStable, Handle: newRoom},
		Direction:   dir,
	})

	if !oneway {
		back, ok := reverseDirection(dir)
		if ok {
			newExits, _ := ctx.Stores.Exits.Get(newRoom)
			newExits.List = append(newExits.List, component.ExitData{
				Destination: loc.RoomID,
				Direction:   back,
			})
		}
	}
	ctx.World.Unlock()

	return fmt.Sprintf("Created new room %q to the %s.", roomName, dir), nil
}

func reverseDirection(d component.Direction) (component.Direction, bool) {
	switch d {
	case component.North:
		return component.South, true
	case component.South:
		return component.North, true
	case component.East:
		return component.West, true
	case component.West:
		return component.East, true
	case component.Up:
		return component.Down, true
	case component.Down:
		return component.Up, true
	case component.Northeast:
		return component.Southwest, true
	case component.Northwest:
		return component.Southeast, true
	case component.Southeast:
		return component.Northwest, true
	case component.Southwest:
		return component.Northeast, true
	}
	return "", false
}

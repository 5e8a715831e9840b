package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
	"github.com/huhlig/wyldlands-go/internal/world/event"
	"github.com/huhlig/wyldlands-go/internal/world/memory"
)

// DirtyMarker is the one persistence capability a command handler needs:
// mark an entity's components dirty so the next auto-save picks it up
// (spec §4.6). Kept as a narrow interface so this package does not import
// internal/world/persist.
type DirtyMarker interface {
	MarkDirty(id uuid.UUID)
}

// HelpTopics resolves `help <keyword>` to database-backed topic text
// (spec §4.4 step 2).
type HelpTopics interface {
	Lookup(keyword string) (string, bool)
}

// Scripting is the hook surface builder/admin "generate" verbs call into.
// Content-authoring logic itself is out of scope (spec §1); this interface
// is only the dispatch boundary.
type Scripting interface {
	Call(fn string, args ...string) (string, error)
}

// MemoryStore is the narrow slice of internal/world/memory.Store the
// storyteller/admin "remember"/"recall"/"reflect"/"forget" verbs call into.
// Kept narrow the same way HelpTopics and Scripting are, so this package
// depends on memory's types but not its persistence internals.
type MemoryStore interface {
	Retain(ctx context.Context, entity uuid.UUID, kind memory.Kind, content string,
		ts time.Time, memCtx string, metadata map[string]string, involved map[uuid.UUID]string, tags []string) (uuid.UUID, error)
	Recall(ctx context.Context, entity uuid.UUID, query string, kinds []memory.Kind, tags []string, mode memory.TagMode) ([]memory.Node, error)
	Reflect(ctx context.Context, entity uuid.UUID, query, memCtx string, tags []string, mode memory.TagMode, llm memory.LLM) (string, []memory.Node, error)
	DeleteMemory(ctx context.Context, id uuid.UUID) error
}

// Deps is injected into every verb handler, mirroring the teacher's
// handler.Deps convention (internal/handler/context.go in the teacher).
type Deps struct {
	World   *ecs.World
	Stores  *component.Stores
	Bus     *event.Bus
	Persist DirtyMarker
	Help    HelpTopics
	Script  Scripting
	Memory  MemoryStore
	LLM     memory.LLM
}

// Context carries the per-invocation caller identity alongside Deps.
type Context struct {
	*Deps
	AccountRole Role
	Registry    *Registry
}

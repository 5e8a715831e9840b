package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/huhlig/wyldlands-go/internal/world/ecs"
	"github.com/huhlig/wyldlands-go/internal/world/memory"
)

// fakeMemoryStore is an in-memory stand-in for memory.Store satisfying
// MemoryStore, so dispatch/role-gating behavior can be tested without a
// database.
type fakeMemoryStore struct {
	retained []string
	deleted  []uuid.UUID
	recalled []memory.Node
}

func (f *fakeMemoryStore) Retain(_ context.Context, _ uuid.UUID, _ memory.Kind, content string,
	_ time.Time, _ string, _ map[string]string, _ map[uuid.UUID]string, _ []string) (uuid.UUID, error) {
	f.retained = append(f.retained, content)
	return uuid.New(), nil
}

func (f *fakeMemoryStore) Recall(context.Context, uuid.UUID, string, []memory.Kind, []string, memory.TagMode) ([]memory.Node, error) {
	return f.recalled, nil
}

func (f *fakeMemoryStore) Reflect(context.Context, uuid.UUID, string, string, []string, memory.TagMode, memory.LLM) (string, []memory.Node, error) {
	return "a summary", nil, nil
}

func (f *fakeMemoryStore) DeleteMemory(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newMemoryTestDeps() (*Deps, ecs.EntityID, *fakeMemoryStore) {
	deps, entity := newTestDeps()
	deps.World.Registry().Bind(uuid.New(), entity)
	store := &fakeMemoryStore{}
	deps.Memory = store
	return deps, entity, store
}

func TestRememberRequiresStorytellerRole(t *testing.T) {
	reg := NewRegistry()
	RegisterCore(reg)
	deps, entity, _ := newMemoryTestDeps()

	playerCtx := &Context{Deps: deps, AccountRole: Player}
	if _, err := reg.Execute(playerCtx, entity, "remember", []string{"a", "quiet", "morning"}); err != ErrPermissionDenied {
		t.Fatalf("Execute(remember) as player err = %v, want ErrPermissionDenied", err)
	}

	storytellerCtx := &Context{Deps: deps, AccountRole: Storyteller}
	out, err := reg.Execute(storytellerCtx, entity, "remember", []string{"a", "quiet", "morning"})
	if err != nil {
		t.Fatalf("Execute(remember) as storyteller err = %v", err)
	}
	if out == "" {
		t.Fatalf("Execute(remember) returned empty output")
	}
}

func TestForgetRequiresAdminRole(t *testing.T) {
	reg := NewRegistry()
	RegisterCore(reg)
	deps, entity, store := newMemoryTestDeps()
	id := uuid.New()

	storytellerCtx := &Context{Deps: deps, AccountRole: Storyteller}
	if _, err := reg.Execute(storytellerCtx, entity, "forget", []string{id.String()}); err != ErrPermissionDenied {
		t.Fatalf("Execute(forget) as storyteller err = %v, want ErrPermissionDenied", err)
	}

	adminCtx := &Context{Deps: deps, AccountRole: Admin}
	if _, err := reg.Execute(adminCtx, entity, "forget", []string{id.String()}); err != nil {
		t.Fatalf("Execute(forget) as admin err = %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != id {
		t.Fatalf("forget did not reach the memory store: deleted=%v", store.deleted)
	}
}

func TestReflectRequiresLLM(t *testing.T) {
	reg := NewRegistry()
	RegisterCore(reg)
	deps, entity, _ := newMemoryTestDeps()
	ctx := &Context{Deps: deps, AccountRole: Storyteller}

	if _, err := reg.Execute(ctx, entity, "reflect", []string{"the", "siege"}); err == nil {
		t.Fatalf("Execute(reflect) with no LLM configured should fail")
	}

	deps.LLM = noopLLM{}
	out, err := reg.Execute(ctx, entity, "reflect", []string{"the", "siege"})
	if err != nil {
		t.Fatalf("Execute(reflect) err = %v", err)
	}
	if out != "a summary" {
		t.Fatalf("Execute(reflect) = %q, want %q", out, "a summary")
	}
}

type noopLLM struct{}

func (noopLLM) Complete(context.Context, string, string, float64, int) (string, error) {
	return "", nil
}

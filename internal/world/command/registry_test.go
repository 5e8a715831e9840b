package command

import (
	"testing"

	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
	"github.com/huhlig/wyldlands-go/internal/world/event"
)

func newTestDeps() (*Deps, ecs.EntityID) {
	w := ecs.NewWorld()
	stores := component.NewStores(w.Registry())
	deps := &Deps{World: w, Stores: stores, Bus: event.NewBus()}
	e := w.CreateEntity()
	return deps, e
}

func TestSubcommandDispatchMatchesDirectInvocation(t *testing.T) {
	reg := NewRegistry()
	var gotViaSub, gotViaDirect []string
	reg.Register(Verb{Canonical: "area", HelpText: "root", Handler: func(ctx *Context, e ecs.EntityID, c string, args []string) (string, error) {
		return "root", nil
	}})
	reg.Register(Verb{Canonical: "area create", HelpText: "sub", Handler: func(ctx *Context, e ecs.EntityID, c string, args []string) (string, error) {
		gotViaSub = append([]string(nil), args...)
		return "created", nil
	}})

	deps, entity := newTestDeps()
	ctx := &Context{Deps: deps, AccountRole: Admin}

	out1, err1 := reg.Execute(ctx, entity, "area", []string{"create", "foo", "bar"})
	if err1 != nil || out1 != "created" {
		t.Fatalf("subcommand fallback failed: out=%q err=%v", out1, err1)
	}

	out2, err2 := reg.Execute(ctx, entity, "area create", []string{"foo", "bar"})
	if err2 != nil || out2 != "created" {
		t.Fatalf("direct invocation failed: out=%q err=%v", out2, err2)
	}
	gotViaDirect = []string{"foo", "bar"}

	if len(gotViaSub) != len(gotViaDirect) {
		t.Fatalf("args mismatch: sub=%v direct=%v", gotViaSub, gotViaDirect)
	}
	for i := range gotViaSub {
		if gotViaSub[i] != gotViaDirect[i] {
			t.Fatalf("args mismatch at %d: sub=%v direct=%v", i, gotViaSub, gotViaDirect)
		}
	}
}

func TestUnknownCommandReturnsError(t *testing.T) {
	reg := NewRegistry()
	deps, entity := newTestDeps()
	ctx := &Context{Deps: deps, AccountRole: Player}
	_, err := reg.Execute(ctx, entity, "frobnicate", nil)
	if err != ErrUnknownCommand {
		t.Fatalf("Execute() err = %v, want ErrUnknownCommand", err)
	}
}

func TestRoleGating(t *testing.T) {
	reg := NewRegistry()
	admin := Admin
	reg.Register(Verb{Canonical: "world reload", RequiredRole: &admin, Bucket: BucketAdmin,
		Handler: func(ctx *Context, e ecs.EntityID, c string, args []string) (string, error) { return "ok", nil }})

	deps, entity := newTestDeps()

	playerCtx := &Context{Deps: deps, AccountRole: Player}
	if _, err := reg.Execute(playerCtx, entity, "world reload", nil); err != ErrPermissionDenied {
		t.Fatalf("Execute() err = %v, want ErrPermissionDenied", err)
	}

	help := reg.GenerateHelp(Player)
	if containsSubstring(help, "world reload") {
		t.Fatalf("GenerateHelp(Player) leaked an admin-only verb: %q", help)
	}
	help = reg.GenerateHelp(Admin)
	if !containsSubstring(help, "world reload") {
		t.Fatalf("GenerateHelp(Admin) missing admin verb: %q", help)
	}

	adminCtx := &Context{Deps: deps, AccountRole: Admin}
	if out, err := reg.Execute(adminCtx, entity, "world reload", nil); err != nil || out != "ok" {
		t.Fatalf("Execute() as admin = (%q, %v), want (ok, nil)", out, err)
	}
}

func TestCommandExecutedEventPublished(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Verb{Canonical: "noop", Handler: func(ctx *Context, e ecs.EntityID, c string, args []string) (string, error) {
		return "", nil
	}})
	deps, entity := newTestDeps()

	var got event.CommandExecuted
	event.Subscribe(deps.Bus, func(ev event.CommandExecuted) { got = ev })

	ctx := &Context{Deps: deps, AccountRole: Player}
	if _, err := reg.Execute(ctx, entity, "noop", nil); err != nil {
		t.Fatalf("Execute() err = %v", err)
	}
	if got.Command != "noop" || !got.Success || got.Entity != entity {
		t.Fatalf("CommandExecuted event = %+v, want command=noop success=true entity=%v", got, entity)
	}
}

func containsSubstring(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}

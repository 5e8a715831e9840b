// Package command implements the verb registry and execution algorithm of
// spec §4.4: alias resolution, role gating, the help special-case, exact
// match, and the "<root> <sub>" subcommand fallback.
package command

import (
	"errors"
	"strings"
	"sync"

	"github.com/huhlig/wyldlands-go/internal/world/ecs"
	"github.com/huhlig/wyldlands-go/internal/world/event"
)

// ErrUnknownCommand is returned when neither an exact nor a subcommand
// match is found (spec §4.4 step 5).
var ErrUnknownCommand = errors.New("unknown command")

// ErrPermissionDenied is returned when the caller's role does not satisfy
// a verb's required role (spec §4.4, §8 testable property 8).
var ErrPermissionDenied = errors.New("permission denied")

// Handler is the function every verb implements.
type Handler func(ctx *Context, entity ecs.EntityID, canonical string, args []string) (string, error)

// Verb is one registered command: {handler, help_text, aliases, required_role?}.
type Verb struct {
	Canonical    string
	Handler      Handler
	HelpText     string
	Aliases      []string
	RequiredRole *Role
	Bucket       HelpBucket
}

// CommandStats is the small operator-visibility counter supplementing the
// distilled spec (see SPEC_FULL.md §5.4, grounded in
// original_source/server/src/ecs/systems/command.rs).
type CommandStats struct {
	Invocations int
}

// Registry maps canonical verb names to Verb records, plus a separate alias
// map pointing each alias at its canonical name (spec §4.4).
type Registry struct {
	mu      sync.RWMutex
	verbs   map[string]*Verb
	aliases map[string]string
	stats   map[string]*CommandStats
}

func NewRegistry() *Registry {
	return &Registry{
		verbs:   make(map[string]*Verb),
		aliases: make(map[string]string),
		stats:   make(map[string]*CommandStats),
	}
}

// Register adds a verb and its aliases. Canonical names and aliases share
// one namespace for lookup purposes; registering a name twice overwrites it.
func (r *Registry) Register(v Verb) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vv := v
	r.verbs[v.Canonical] = &vv
	r.stats[v.Canonical] = &CommandStats{}
	for _, a := range v.Aliases {
		r.aliases[strings.ToLower(a)] = v.Canonical
	}
}

func (r *Registry) lookup(name string) (*Verb, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.verbs[name]; ok {
		return v, true
	}
	return nil, false
}

func (r *Registry) resolveAlias(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canon, ok := r.aliases[name]; ok {
		return canon
	}
	return name
}

// Execute implements spec §4.4's five-step dispatch algorithm.
func (r *Registry) Execute(ctx *Context, entity ecs.EntityID, command string, args []string) (string, error) {
	ctx.Registry = r
	command = r.resolveAlias(strings.ToLower(strings.TrimSpace(command)))

	if command == "help" {
		return r.execHelp(ctx, args)
	}

	if v, ok := r.lookup(command); ok {
		return r.invoke(ctx, entity, v, args)
	}

	if len(args) > 0 {
		sub := command + " " + strings.ToLower(args[0])
		if v, ok := r.lookup(sub); ok {
			return r.invoke(ctx, entity, v, args[1:])
		}
	}

	return "", ErrUnknownCommand
}

func (r *Registry) invoke(ctx *Context, entity ecs.EntityID, v *Verb, args []string) (string, error) {
	if v.RequiredRole != nil && !HasPermission(ctx.AccountRole, *v.RequiredRole) {
		return "", ErrPermissionDenied
	}
	out, err := v.Handler(ctx, entity, v.Canonical, args)

	r.mu.Lock()
	if st, ok := r.stats[v.Canonical]; ok {
		st.Invocations++
	}
	r.mu.Unlock()

	if ctx.Bus != nil {
		event.Emit(ctx.Bus, event.CommandExecuted{
			Entity:  entity,
			Command: v.Canonical,
			Success: err == nil,
		})
	}
	return out, err
}

// Stats returns a snapshot of per-verb invocation counts, used by the
// `world inspect` admin verb.
func (r *Registry) Stats() map[string]CommandStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]CommandStats, len(r.stats))
	for k, v := range r.stats {
		out[k] = *v
	}
	return out
}

// Visible returns every verb accessible to a given role, in no particular
// order (cmd/world uses it for the registered-verb count at boot).
func (r *Registry) Visible(role Role) []*Verb {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Verb
	for _, v := range r.verbs {
		if v.RequiredRole == nil || HasPermission(role, *v.RequiredRole) {
			out = append(out, v)
		}
	}
	return out
}

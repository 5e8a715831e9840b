package event

import "github.com/huhlig/wyldlands-go/internal/world/ecs"

// CommandExecuted is published after every verb handler invocation,
// successful or failed (spec §4.4 step 3). Unknown commands and permission
// denials never reach a handler and publish nothing.
type CommandExecuted struct {
	Entity  ecs.EntityID
	Command string
	Success bool
}

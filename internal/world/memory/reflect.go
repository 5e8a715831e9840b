package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Reflect recalls across all four kinds and either formats a fallback
// string or delegates to an LLM for a grounded response.
func (s *Store) Reflect(ctx context.Context, entity uuid.UUID, query, memCtx string, tags []string, mode TagMode, llm LLM) (string, []Node, error) {
	nodes, err := s.Recall(ctx, entity, query, nil, tags, mode)
	if err != nil {
		return "", nil, err
	}

	var block strings.Builder
	block.WriteString("Relevant memories:\n")
	for _, n := range nodes {
		if n.Record.Context != "" {
			fmt.Fprintf(&block, "[%s] %s [%s]\n", n.Record.Kind, n.Record.Content, n.Record.Context)
		} else {
			fmt.Fprintf(&block, "[%s] %s\n", n.Record.Kind, n.Record.Content)
		}
	}

	if llm == nil {
		var b strings.Builder
		if memCtx != "" {
			fmt.Fprintf(&b, "Context: %s\n", memCtx)
		}
		b.WriteString(block.String())
		fmt.Fprintf(&b, "Query: %s", query)
		return b.String(), nodes, nil
	}

	system := "You are responding based on the following memories: " + block.String()
	var user strings.Builder
	if memCtx != "" {
		fmt.Fprintf(&user, "Context: %s\n", memCtx)
	}
	user.WriteString(query)

	resp, err := llm.Complete(ctx, system, user.String(), 0.7, s.cfg.LLMMaxTokens)
	if err != nil {
		return "", nil, ErrLLM
	}
	return resp, nodes, nil
}

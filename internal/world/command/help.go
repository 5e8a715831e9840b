package command

import (
	"fmt"
	"sort"
	"strings"
)

// HelpBucket partitions verbs for `help commands` (spec §4.4).
type HelpBucket int

const (
	BucketRegular HelpBucket = iota
	BucketMovement
	BucketStoryteller
	BucketBuilder
	BucketAdmin
)

var bucketTitles = map[HelpBucket]string{
	BucketRegular:     "Commands",
	BucketMovement:    "Movement",
	BucketStoryteller: "Storyteller Commands",
	BucketBuilder:     "Builder Commands",
	BucketAdmin:       "Admin Commands",
}

// execHelp special-cases the three `help` forms of spec §4.4 step 2.
func (r *Registry) execHelp(ctx *Context, args []string) (string, error) {
	if len(args) == 0 {
		return "Type 'help commands' for a list of commands, or 'help <topic>' for a specific topic.", nil
	}
	if strings.EqualFold(args[0], "commands") {
		return r.GenerateHelp(ctx.AccountRole), nil
	}
	if ctx.Help != nil {
		if text, ok := ctx.Help.Lookup(strings.ToLower(args[0])); ok {
			return text, nil
		}
	}
	return fmt.Sprintf("No help topic found for %q.", args[0]), nil
}

// GenerateHelp walks the registry, partitions into buckets, sorts each, and
// emits them with section headers — role-restricted verbs the caller can't
// access are omitted entirely (spec §4.4, §8 testable property 8).
func (r *Registry) GenerateHelp(role Role) string {
	r.mu.RLock()
	buckets := map[HelpBucket][]*Verb{}
	for _, v := range r.verbs {
		if v.RequiredRole != nil && !HasPermission(role, *v.RequiredRole) {
			continue
		}
		buckets[v.Bucket] = append(buckets[v.Bucket], v)
	}
	r.mu.RUnlock()

	order := []HelpBucket{BucketRegular, BucketMovement, BucketStoryteller, BucketBuilder, BucketAdmin}
	var b strings.Builder
	for _, bucket := range order {
		verbs := buckets[bucket]
		if len(verbs) == 0 {
			continue
		}
		sort.Slice(verbs, func(i, j int) bool { return verbs[i].Canonical < verbs[j].Canonical })
		fmt.Fprintf(&b, "== %s ==\r\n", bucketTitles[bucket])
		for _, v := range verbs {
			fmt.Fprintf(&b, "  %-16s %s\r\n", v.Canonical, v.HelpText)
		}
	}
	return b.String()
}

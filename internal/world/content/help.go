// Package content loads static game content definitions from YAML files,
// grounded on the teacher's internal/data package (internal/data/skill.go:
// os.ReadFile + yaml.Unmarshal into a typed table, looked up by key).
package content

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// helpTopicFile is the on-disk shape of a help topics YAML file.
type helpTopicFile struct {
	Topics []struct {
		Keyword string `yaml:"keyword"`
		Text    string `yaml:"text"`
	} `yaml:"topics"`
}

// HelpTopics implements command.HelpTopics by looking keywords up in a
// table loaded once at startup from a YAML file.
type HelpTopics struct {
	topics map[string]string
}

// LoadHelpTopics reads and indexes a help topics YAML file.
func LoadHelpTopics(path string) (*HelpTopics, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read help topics: %w", err)
	}
	var f helpTopicFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse help topics: %w", err)
	}
	t := &HelpTopics{topics: make(map[string]string, len(f.Topics))}
	for _, e := range f.Topics {
		t.topics[strings.ToLower(e.Keyword)] = e.Text
	}
	return t, nil
}

// NewEmptyHelpTopics returns a topic table with no entries, for boot paths
// where the optional help-topics file is absent.
func NewEmptyHelpTopics() *HelpTopics {
	return &HelpTopics{topics: make(map[string]string)}
}

// Lookup implements command.HelpTopics.
func (t *HelpTopics) Lookup(keyword string) (string, bool) {
	text, ok := t.topics[strings.ToLower(keyword)]
	return text, ok
}

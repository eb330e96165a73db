package footprint

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

//go:embed achievements.yaml
var defaultAchievements []byte

// Descriptor is how an achievement is presented to the client.
type Descriptor struct {
	Key  string `yaml:"key" json:"key"`
	Icon string `yaml:"icon" json:"icon"`
	Name string `yaml:"name" json:"name"`
}

type CategoryAchievement struct {
	Category   string `yaml:"category"`
	Descriptor `yaml:",inline"`
}

type MilestoneAchievement struct {
	Threshold  int64 `yaml:"threshold"`
	Descriptor `yaml:",inline"`
}

// AchievementTable maps category names and total-collection thresholds to
// achievement descriptors. New categories only need a table entry.
type AchievementTable struct {
	Categories []CategoryAchievement  `yaml:"categories"`
	Milestones []MilestoneAchievement `yaml:"milestones"`

	byCategory map[string]Descriptor
}

// DefaultAchievements returns the embedded table.
func DefaultAchievements() *AchievementTable {
	t, err := ParseAchievements(defaultAchievements)
	if err != nil {
		panic(fmt.Sprintf("embedded achievements.yaml is invalid: %v", err))
	}
	return t
}

// LoadAchievements reads a table from path, or returns the embedded default
// when path is empty.
func LoadAchievements(path string) (*AchievementTable, error) {
	if path == "" {
		return DefaultAchievements(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read achievements table: %w", err)
	}
	return ParseAchievements(data)
}

func ParseAchievements(data []byte) (*AchievementTable, error) {
	var t AchievementTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse achievements table: %w", err)
	}

	t.byCategory = make(map[string]Descriptor, len(t.Categories))
	for _, c := range t.Categories {
		if c.Category == "" || c.Key == "" {
			return nil, errors.New("category achievement needs category and key")
		}
		if _, dup := t.byCategory[c.Category]; dup {
			return nil, fmt.Errorf("duplicate achievement for category %q", c.Category)
		}
		t.byCategory[c.Category] = c.Descriptor
	}

	var prev int64
	for _, m := range t.Milestones {
		if m.Key == "" || m.Threshold <= 0 {
			return nil, errors.New("milestone achievement needs key and positive threshold")
		}
		if m.Threshold <= prev {
			return nil, fmt.Errorf("milestone %q threshold must be greater than %d", m.Key, prev)
		}
		prev = m.Threshold
	}
	return &t, nil
}

// ForCategory returns the descriptor for a category name. Unknown categories
// have no achievement.
func (t *AchievementTable) ForCategory(name string) (Descriptor, bool) {
	d, ok := t.byCategory[name]
	return d, ok
}

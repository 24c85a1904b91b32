package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryRule maps one complaint category to the trigger words that select it.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Triggers []string `yaml:"triggers"`
}

// RuleSet is the full keyword table the classifier scans. Category rules are
// evaluated in declared order and the first match wins, so the slice order is
// part of the rule set's meaning.
type RuleSet struct {
	Categories       []CategoryRule `yaml:"categories"`
	CriticalTriggers []string       `yaml:"critical_triggers"`
}

// DefaultRuleSet returns the built-in keyword table used when no rules file
// is configured.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Categories: []CategoryRule{
			{Category: "Water", Triggers: []string{"leak", "pipe", "dirty", "supply", "water"}},
			{Category: "Road", Triggers: []string{"pothole", "road", "street", "bump"}},
			{Category: "Electricity", Triggers: []string{"wire", "pole", "current", "light", "spark"}},
			{Category: "Sanitation", Triggers: []string{"garbage", "trash", "smell", "waste"}},
		},
		CriticalTriggers: []string{"danger", "death", "fire", "sparking", "flood"},
	}
}

// LoadRuleSet reads a YAML rule file from disk. The file replaces the default
// table wholesale, so it must carry at least one usable category rule.
func LoadRuleSet(path string) (RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rules file: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(raw, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("parse rules file: %w", err)
	}

	if len(rs.Categories) == 0 {
		return RuleSet{}, fmt.Errorf("rules file %s declares no categories", path)
	}
	for i, rule := range rs.Categories {
		if strings.TrimSpace(rule.Category) == "" {
			return RuleSet{}, fmt.Errorf("rules file %s: category rule %d has a blank name", path, i)
		}
		if len(rule.Triggers) == 0 {
			return RuleSet{}, fmt.Errorf("rules file %s: category %q has no triggers", path, rule.Category)
		}
	}

	return rs, nil
}

// normalized returns a copy of the rule set with every trigger lowercased, so
// matching against a lowercased description is a plain substring check.
func (rs RuleSet) normalized() RuleSet {
	out := RuleSet{
		Categories:       make([]CategoryRule, 0, len(rs.Categories)),
		CriticalTriggers: lowerAll(rs.CriticalTriggers),
	}
	for _, rule := range rs.Categories {
		out.Categories = append(out.Categories, CategoryRule{
			Category: rule.Category,
			Triggers: lowerAll(rule.Triggers),
		})
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

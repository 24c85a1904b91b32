package classify

import (
	"fmt"
	"strings"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// Confidence is the fixed score attached to every classification. The keyword
// engine has no probabilistic model behind it, so the value is a constant
// rather than anything measured.
const Confidence = 0.9

// Result carries everything the classifier derives from a single description.
type Result struct {
	Category      string
	Severity      domain.Severity
	PriorityScore int
	Confidence    float64
	Reasoning     string
}

// Classifier assigns a category, severity and priority score to complaint
// descriptions by scanning them for trigger words.
type Classifier struct {
	rules RuleSet
}

// NewClassifier builds a classifier over the given rule set.
func NewClassifier(rules RuleSet) *Classifier {
	return &Classifier{rules: rules.normalized()}
}

// Analyze classifies a description against the rule set. Category rules are
// scanned in declared order and the first match replaces the declared
// category; with no match the declared category stands. The declared severity
// is kept unless a critical trigger appears, in which case severity is forced
// to Critical and the score to 10. Analyze never fails: unrecognized declared
// values pass through and score as Medium.
func (c *Classifier) Analyze(description, declaredCategory string, declaredSeverity domain.Severity) Result {
	text := strings.ToLower(description)

	category := declaredCategory
	for _, rule := range c.rules.Categories {
		if containsAny(text, rule.Triggers) {
			category = rule.Category
			break
		}
	}

	severity := declaredSeverity
	score := priorityScore(severity)
	if containsAny(text, c.rules.CriticalTriggers) {
		severity = domain.SeverityCritical
		score = 10
	}

	return Result{
		Category:      category,
		Severity:      severity,
		PriorityScore: score,
		Confidence:    Confidence,
		Reasoning:     fmt.Sprintf("Classified '%s'. Severity '%s'.", category, severity),
	}
}

func priorityScore(s domain.Severity) int {
	switch s {
	case domain.SeverityLow:
		return 2
	case domain.SeverityMedium:
		return 5
	case domain.SeverityHigh:
		return 8
	case domain.SeverityCritical:
		return 10
	default:
		return 5
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

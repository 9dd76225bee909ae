package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// intensityRe matches JMA seismic intensity tokens in Japanese or English,
// e.g. "震度5弱", "震度6+", "intensity 5 upper", "shindo 7".
var intensityRe = regexp.MustCompile(`(?i)(?:震度|shindo|intensity)\s*([0-7])\s*(弱|強|\+|-|lower|upper)?`)

// thresholdRe matches a bare intensity token such as "5-" or "6強".
var thresholdRe = regexp.MustCompile(`(?i)^([0-7])\s*(弱|強|\+|-|lower|upper)?$`)

// Classifier decides whether an alert is urgent from its text. It is a
// best-effort policy: false positives and negatives are accepted.
type Classifier struct {
	// SeismicThreshold is the lowest intensity rank treated as urgent.
	// Ranks: 1..4, 5- = 5, 5+ = 5.5, 6- = 6, 6+ = 6.5, 7.
	SeismicThreshold float64
	WarningKeywords  []string
	AdvisoryKeywords []string
}

// NewClassifier builds a classifier from a threshold token such as "5-" or
// "6強" and the configured keyword lists.
func NewClassifier(threshold string, warning, advisory []string) (*Classifier, error) {
	rank, ok := ParseIntensity(threshold)
	if !ok {
		return nil, fmt.Errorf("invalid seismic intensity threshold %q", threshold)
	}
	return &Classifier{
		SeismicThreshold: rank,
		WarningKeywords:  foldAll(warning),
		AdvisoryKeywords: foldAll(advisory),
	}, nil
}

// ParseIntensity converts an intensity token ("4", "5-", "5弱", "6 upper")
// into its rank.
func ParseIntensity(token string) (float64, bool) {
	token = strings.TrimSpace(width.Fold.String(token))
	if token == "" {
		return 0, false
	}
	m := thresholdRe.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	return intensityRank(m[1], m[2]), true
}

func intensityRank(digit, modifier string) float64 {
	n, _ := strconv.Atoi(digit)
	switch strings.ToLower(modifier) {
	case "強", "+", "upper":
		return float64(n) + 0.5
	default:
		return float64(n)
	}
}

// MaxIntensity returns the highest intensity rank mentioned in text.
func MaxIntensity(text string) (float64, bool) {
	matches := intensityRe.FindAllStringSubmatch(width.Fold.String(text), -1)
	if len(matches) == 0 {
		return 0, false
	}
	best := 0.0
	for _, m := range matches {
		if r := intensityRank(m[1], m[2]); r > best {
			best = r
		}
	}
	return best, true
}

// Urgent applies the policy: a seismic intensity token decides on its own;
// otherwise a warning-class keyword is urgent and anything else is not.
// Advisory keywords are removed before the warning search so an advisory
// phrase that embeds a warning word ("警報解除") does not count as a warning.
func (c *Classifier) Urgent(text string) bool {
	if rank, ok := MaxIntensity(text); ok {
		return rank >= c.SeismicThreshold
	}
	folded := strings.ToLower(width.Fold.String(text))
	for _, kw := range c.AdvisoryKeywords {
		folded = strings.ReplaceAll(folded, kw, " ")
	}
	return containsAny(folded, c.WarningKeywords)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func foldAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(width.Fold.String(kw)))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

package feeds

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// jst is the zone P2PQuake timestamps are reported in.
var jst = time.FixedZone("JST", 9*60*60)

const quakeTimeLayout = "2006/01/02 15:04:05"

// QuakeSource reads earthquake reports in the P2PQuake history format.
type QuakeSource struct {
	fetcher
}

// NewQuakeSource creates a source polling url with the given request timeout.
func NewQuakeSource(url string, timeout time.Duration) *QuakeSource {
	return &QuakeSource{fetcher: newFetcher(url, timeout)}
}

func (s *QuakeSource) Name() string { return "quake" }

func (s *QuakeSource) Categories() []domain.Category {
	return []domain.Category{domain.CategoryEarthquake, domain.CategoryTsunami}
}

type quakeReport struct {
	Time       string `json:"time"`
	Earthquake *struct {
		Time       string `json:"time"`
		MaxScale   *int   `json:"maxScale"`
		Hypocenter *struct {
			Name      string   `json:"name"`
			Magnitude *float64 `json:"magnitude"`
		} `json:"hypocenter"`
		DomesticTsunami string `json:"domesticTsunami"`
	} `json:"earthquake"`
}

// Normalize emits one earthquake record per report and, when a domestic
// tsunami warning or watch is attached, one tsunami record. Reports without
// an earthquake body are skipped.
func (s *QuakeSource) Normalize(payload []byte) ([]domain.AlertRecord, error) {
	var reports []quakeReport
	if err := json.Unmarshal(payload, &reports); err != nil {
		return nil, fmt.Errorf("%w: decode quake reports: %w", domain.ErrMalformedPayload, err)
	}

	var records []domain.AlertRecord
	for _, r := range reports {
		eq := r.Earthquake
		if eq == nil {
			continue
		}
		ts := parseQuakeTime(eq.Time)
		if ts.IsZero() {
			ts = parseQuakeTime(r.Time)
		}

		region := "震源地不明"
		var magnitude *float64
		if eq.Hypocenter != nil {
			if eq.Hypocenter.Name != "" {
				region = eq.Hypocenter.Name
			}
			magnitude = eq.Hypocenter.Magnitude
		}

		parts := []string{scaleLabel(eq.MaxScale), region}
		if magnitude != nil && *magnitude >= 0 {
			parts = append(parts, fmt.Sprintf("M%.1f", *magnitude))
		}
		records = append(records, domain.NewAlertRecord(s.Name(), domain.CategoryEarthquake, strings.Join(parts, " "), ts))

		if msg, ok := tsunamiMessages[eq.DomesticTsunami]; ok {
			records = append(records, domain.NewAlertRecord(s.Name(), domain.CategoryTsunami, msg+" "+region, ts))
		}
	}
	return records, nil
}

// tsunamiMessages covers the domesticTsunami values that call for a tsunami
// record. None, Unknown, Checking and NonEffective produce nothing.
var tsunamiMessages = map[string]string{
	"Warning": "津波警報",
	"Watch":   "津波注意報",
}

// scaleLabel renders a P2PQuake maxScale code as a shindo token.
func scaleLabel(scale *int) string {
	if scale == nil {
		return "震度不明"
	}
	switch *scale {
	case 10:
		return "震度1"
	case 20:
		return "震度2"
	case 30:
		return "震度3"
	case 40:
		return "震度4"
	case 45, 46: // 46: estimated 5弱 or stronger
		return "震度5弱"
	case 50:
		return "震度5強"
	case 55:
		return "震度6弱"
	case 60:
		return "震度6強"
	case 70:
		return "震度7"
	default:
		return "震度不明"
	}
}

func parseQuakeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	// Drop fractional seconds ("2024/01/01 16:10:09.123").
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	t, err := time.ParseInLocation(quakeTimeLayout, s, jst)
	if err != nil {
		return time.Time{}
	}
	return t
}

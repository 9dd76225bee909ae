package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Category groups alerts for display; each has its own bounded buffer.
type Category string

const (
	CategoryEarthquake Category = "earthquake"
	CategoryWeather    Category = "weather"
	CategoryTsunami    Category = "tsunami"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryEarthquake, CategoryWeather, CategoryTsunami}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryEarthquake, CategoryWeather, CategoryTsunami:
		return c, nil
	default:
		return "", fmt.Errorf("unknown alert category %q", s)
	}
}

// AlertRecord is the uniform shape every feed is normalized into.
type AlertRecord struct {
	ID        string   `json:"id"`
	Category  Category `json:"category"`
	Message   string   `json:"message"`
	Timestamp string   `json:"timestamp"` // RFC 3339
	Urgent    bool     `json:"urgent"`
	Source    string   `json:"source,omitempty"`
	Synthetic bool     `json:"synthetic,omitempty"`
}

// NewAlertRecord stamps a record with a deterministic ID. A zero timestamp is
// replaced with the current clock time.
func NewAlertRecord(source string, category Category, message string, ts time.Time) AlertRecord {
	if ts.IsZero() {
		ts = clock.Now()
	}
	stamp := ts.UTC().Format(time.RFC3339)
	return AlertRecord{
		ID:        GenerateAlertID(category, message, stamp),
		Category:  category,
		Message:   message,
		Timestamp: stamp,
		Source:    source,
	}
}

// GenerateAlertID derives a stable ID from the record's content so the same
// alert seen in consecutive polls deduplicates.
func GenerateAlertID(category Category, message, timestamp string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", category, message, timestamp)))
	return string(category) + "-" + hex.EncodeToString(hash[:8])
}

// FallbackAlert is the placeholder published for a category when its feed
// fails. Its ID is fixed so repeated failures collapse to one entry.
func FallbackAlert(category Category, now time.Time) AlertRecord {
	return AlertRecord{
		ID:        FallbackID(category),
		Category:  category,
		Message:   fallbackMessages[category],
		Timestamp: now.UTC().Format(time.RFC3339),
		Source:    "fallback",
		Synthetic: true,
	}
}

// FallbackID is the fixed ID of a category's placeholder alert.
func FallbackID(category Category) string {
	return "fallback-" + string(category)
}

var fallbackMessages = map[Category]string{
	CategoryEarthquake: "Earthquake information is temporarily unavailable. Check official broadcasts.",
	CategoryWeather:    "Weather warnings are temporarily unavailable. Check official broadcasts.",
	CategoryTsunami:    "Tsunami information is temporarily unavailable. Stay away from the coast if you feel strong shaking.",
}

type cannedKey struct {
	category Category
	urgent   bool
}

var cannedMessages = map[cannedKey]string{
	{CategoryEarthquake, true}:  "Strong earthquake (intensity 6+) detected. Protect yourself and move to the nearest shelter.",
	{CategoryEarthquake, false}: "Minor earthquake (intensity 3) detected. No action is required.",
	{CategoryWeather, true}:     "Heavy rain warning issued. Move to a safe location.",
	{CategoryWeather, false}:    "Heavy rain advisory issued. Stay alert for updates.",
	{CategoryTsunami, true}:     "Major tsunami warning issued. Evacuate to high ground immediately.",
	{CategoryTsunami, false}:    "Tsunami advisory issued. Stay away from the coast.",
}

// CannedAlert returns a demo alert for one category/urgency combination.
// Injected alerts carry an explicit urgency rather than going through the
// classifier.
func CannedAlert(category Category, urgent bool, now time.Time) AlertRecord {
	rec := NewAlertRecord("injected", category, cannedMessages[cannedKey{category, urgent}], now)
	rec.Urgent = urgent
	rec.Synthetic = true
	return rec
}

package feeds

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/width"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// Default keyword lists used to categorize syndication entries. Entries
// matching neither list are weather alerts.
var (
	DefaultTsunamiKeywords    = []string{"津波", "tsunami"}
	DefaultEarthquakeKeywords = []string{"地震", "震度", "震源", "earthquake", "seismic"}
)

// FeedSource reads Atom or RSS syndication feeds such as the JMA XML feed.
type FeedSource struct {
	fetcher
	parser             *gofeed.Parser
	tsunamiKeywords    []string
	earthquakeKeywords []string
}

// NewFeedSource creates a source polling url with the given request timeout
// and the default category keywords.
func NewFeedSource(url string, timeout time.Duration) *FeedSource {
	return &FeedSource{
		fetcher:            newFetcher(url, timeout),
		parser:             gofeed.NewParser(),
		tsunamiKeywords:    DefaultTsunamiKeywords,
		earthquakeKeywords: DefaultEarthquakeKeywords,
	}
}

// WithKeywords replaces the category keyword lists. Nil keeps the current list.
func (s *FeedSource) WithKeywords(tsunami, earthquake []string) *FeedSource {
	if tsunami != nil {
		s.tsunamiKeywords = tsunami
	}
	if earthquake != nil {
		s.earthquakeKeywords = earthquake
	}
	return s
}

func (s *FeedSource) Name() string { return "feed" }

func (s *FeedSource) Categories() []domain.Category {
	return domain.Categories
}

// Normalize emits one record per feed entry. An entry without title or
// description is labelled with the source name; an entry without a date is
// stamped with the current time.
func (s *FeedSource) Normalize(payload []byte) ([]domain.AlertRecord, error) {
	feed, err := s.parser.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed: %w", domain.ErrMalformedPayload, err)
	}

	records := make([]domain.AlertRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		msg := strings.TrimSpace(item.Title)
		if msg == "" {
			msg = strings.TrimSpace(item.Description)
		}
		if msg == "" {
			msg = s.Name()
		}

		var ts time.Time
		switch {
		case item.PublishedParsed != nil:
			ts = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			ts = *item.UpdatedParsed
		}

		category := s.categorize(strings.Join([]string{item.Title, item.Description, item.Content}, " "))
		records = append(records, domain.NewAlertRecord(s.Name(), category, msg, ts))
	}
	return records, nil
}

// categorize picks the entry's category. Tsunami keywords take precedence
// over earthquake keywords.
func (s *FeedSource) categorize(text string) domain.Category {
	text = strings.ToLower(width.Fold.String(text))
	switch {
	case mentions(text, s.tsunamiKeywords):
		return domain.CategoryTsunami
	case mentions(text, s.earthquakeKeywords):
		return domain.CategoryEarthquake
	default:
		return domain.CategoryWeather
	}
}

func mentions(text string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

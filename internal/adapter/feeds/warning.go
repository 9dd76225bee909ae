package feeds

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// WarningSource reads JMA bosai warning documents for one prefecture office.
type WarningSource struct {
	fetcher
}

// NewWarningSource creates a source polling url with the given request timeout.
func NewWarningSource(url string, timeout time.Duration) *WarningSource {
	return &WarningSource{fetcher: newFetcher(url, timeout)}
}

func (s *WarningSource) Name() string { return "warning" }

func (s *WarningSource) Categories() []domain.Category {
	return []domain.Category{domain.CategoryWeather}
}

type warningDocument struct {
	ReportDatetime   string `json:"reportDatetime"`
	PublishingOffice string `json:"publishingOffice"`
	AreaTypes        []struct {
		Areas []struct {
			Code     string `json:"code"`
			Warnings []struct {
				Code   string `json:"code"`
				Status string `json:"status"`
			} `json:"warnings"`
		} `json:"areas"`
	} `json:"areaTypes"`
}

// Statuses that mean the warning is not in force.
const (
	statusLifted = "解除"
	statusNone   = "発表警報・注意報はなし"
)

// Normalize emits one record per distinct warning kind in force, naming how
// many areas it covers. Lifted warnings are skipped.
func (s *WarningSource) Normalize(payload []byte) ([]domain.AlertRecord, error) {
	var doc warningDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode warning document: %w", domain.ErrMalformedPayload, err)
	}
	if doc.AreaTypes == nil {
		return nil, fmt.Errorf("%w: warning document has no areaTypes", domain.ErrMalformedPayload)
	}

	var ts time.Time
	if doc.ReportDatetime != "" {
		if t, err := time.Parse(time.RFC3339, doc.ReportDatetime); err == nil {
			ts = t
		}
	}

	// Only the first area type is counted; later ones repeat the same
	// warnings at a coarser granularity.
	areas := map[string]map[string]bool{}
	if len(doc.AreaTypes) > 0 {
		for _, a := range doc.AreaTypes[0].Areas {
			for _, w := range a.Warnings {
				if w.Code == "" || w.Status == statusLifted || w.Status == statusNone {
					continue
				}
				if areas[w.Code] == nil {
					areas[w.Code] = map[string]bool{}
				}
				areas[w.Code][a.Code] = true
			}
		}
	}

	codes := make([]string, 0, len(areas))
	for code := range areas {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	prefix := ""
	if doc.PublishingOffice != "" {
		prefix = doc.PublishingOffice + ": "
	}

	records := make([]domain.AlertRecord, 0, len(codes))
	for _, code := range codes {
		msg := fmt.Sprintf("%s%s (%d地域)", prefix, WarningName(code), len(areas[code]))
		records = append(records, domain.NewAlertRecord(s.Name(), domain.CategoryWeather, msg, ts))
	}
	return records, nil
}

// WarningName maps a JMA warning code to its name.
func WarningName(code string) string {
	if name, ok := warningNames[code]; ok {
		return name
	}
	return "気象警報・注意報 (コード" + code + ")"
}

var warningNames = map[string]string{
	"02": "暴風雪警報",
	"03": "大雨警報",
	"04": "洪水警報",
	"05": "暴風警報",
	"06": "大雪警報",
	"07": "波浪警報",
	"08": "高潮警報",
	"10": "大雨注意報",
	"12": "大雪注意報",
	"13": "風雪注意報",
	"14": "雷注意報",
	"15": "強風注意報",
	"16": "波浪注意報",
	"17": "融雪注意報",
	"18": "洪水注意報",
	"19": "高潮注意報",
	"20": "濃霧注意報",
	"21": "乾燥注意報",
	"22": "なだれ注意報",
	"23": "低温注意報",
	"24": "霜注意報",
	"25": "着氷注意報",
	"26": "着雪注意報",
	"32": "暴風雪特別警報",
	"33": "大雨特別警報",
	"35": "暴風特別警報",
	"36": "大雪特別警報",
	"37": "波浪特別警報",
	"38": "高潮特別警報",
}

package feeds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

const warningFixture = `{
  "reportDatetime": "2024-01-01T16:22:00+09:00",
  "publishingOffice": "金沢地方気象台",
  "areaTypes": [
    {
      "areas": [
        {"code": "1720100", "warnings": [{"code": "03", "status": "発表"}, {"code": "14", "status": "継続"}]},
        {"code": "1720200", "warnings": [{"code": "03", "status": "継続"}, {"code": "15", "status": "解除"}]},
        {"code": "1720300", "warnings": [{"status": "発表警報・注意報はなし"}]}
      ]
    },
    {
      "areas": [
        {"code": "170010", "warnings": [{"code": "03", "status": "発表"}]}
      ]
    }
  ]
}`

func TestWarningSource_Normalize(t *testing.T) {
	s := NewWarningSource("http://unused", time.Second)

	records, err := s.Normalize([]byte(warningFixture))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "金沢地方気象台: 大雨警報 (2地域)", records[0].Message)
	assert.Equal(t, "金沢地方気象台: 雷注意報 (1地域)", records[1].Message)
	for _, r := range records {
		assert.Equal(t, domain.CategoryWeather, r.Category)
		assert.Equal(t, "2024-01-01T07:22:00Z", r.Timestamp)
		assert.Equal(t, "warning", r.Source)
	}
}

func TestWarningSource_NormalizeClassifies(t *testing.T) {
	s := NewWarningSource("http://unused", time.Second)
	records, err := s.Normalize([]byte(warningFixture))
	require.NoError(t, err)

	c, err := domain.NewClassifier("5-", []string{"特別警報", "警報"}, []string{"注意報"})
	require.NoError(t, err)

	assert.True(t, c.Urgent(records[0].Message))
	assert.False(t, c.Urgent(records[1].Message))
}

func TestWarningSource_NormalizeNoWarnings(t *testing.T) {
	s := NewWarningSource("http://unused", time.Second)
	records, err := s.Normalize([]byte(`{"reportDatetime": "2024-01-01T16:22:00+09:00", "areaTypes": []}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWarningSource_NormalizeMalformed(t *testing.T) {
	s := NewWarningSource("http://unused", time.Second)

	_, err := s.Normalize([]byte(`not json`))
	require.ErrorIs(t, err, domain.ErrMalformedPayload)

	_, err = s.Normalize([]byte(`{"reportDatetime": "2024-01-01T16:22:00+09:00"}`))
	require.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestWarningName(t *testing.T) {
	assert.Equal(t, "大雨特別警報", WarningName("33"))
	assert.Equal(t, "気象警報・注意報 (コード99)", WarningName("99"))
}

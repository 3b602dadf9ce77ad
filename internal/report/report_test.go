package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ysherlin/ec3-assessment/internal/apperr"
	"github.com/Ysherlin/ec3-assessment/internal/model"
)

func strPtr(s string) *string {
	return &s
}

func staticSource(leads []model.Lead) RowSource {
	return func(fn func(model.Lead) error) error {
		for _, l := range leads {
			if err := fn(l); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestWriteHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	count, err := Write(&buf, staticSource(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, "id,name,email,phone,source,created_time\n", buf.String())
}

func TestWriteRows(t *testing.T) {
	created := time.Date(2024, 1, 15, 9, 30, 45, 0, time.UTC)
	leads := []model.Lead{
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Phone: strPtr("0987654321"), Source: strPtr("Referral"), CreatedTime: created.Add(time.Hour)},
		{ID: 1, Name: "John Doe", Email: "john@example.com", CreatedTime: created},
	}

	var buf bytes.Buffer
	count, err := Write(&buf, staticSource(leads))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,email,phone,source,created_time", lines[0])
	assert.Equal(t, "2,Jane Smith,jane@example.com,0987654321,Referral,2024-01-15 10:30:45", lines[1])
	// Nil phone/source render as empty cells, never a null literal
	assert.Equal(t, "1,John Doe,john@example.com,,,2024-01-15 09:30:45", lines[2])
}

func TestWriteManyRowsFlushes(t *testing.T) {
	leads := make([]model.Lead, 0, 250)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 250; i > 0; i-- {
		leads = append(leads, model.Lead{
			ID:          uint(i),
			Name:        "Lead",
			Email:       "lead@example.com",
			CreatedTime: created,
		})
	}

	var buf bytes.Buffer
	count, err := Write(&buf, staticSource(leads))
	require.NoError(t, err)
	assert.Equal(t, 250, count)
	assert.Equal(t, 251, strings.Count(buf.String(), "\n"))
}

func TestWritePropagatesSourceError(t *testing.T) {
	sourceErr := errors.New("cursor died")
	var buf bytes.Buffer
	_, err := Write(&buf, func(fn func(model.Lead) error) error {
		return sourceErr
	})
	assert.ErrorIs(t, err, sourceErr)
}

func TestParseDateRange(t *testing.T) {
	from, to, err := ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, from)
	require.NotNil(t, to)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *from)
	// Inclusive end of the calendar day
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999000, time.UTC), *to)
}

func TestParseDateRangeSingleDay(t *testing.T) {
	from, to, err := ParseDateRange("2024-01-01", "2024-01-01")
	require.NoError(t, err)
	assert.True(t, from.Before(*to))

	// The bounds cover the whole day and nothing of the neighbors
	endOfPrevDay := time.Date(2023, 12, 31, 23, 59, 59, 999999000, time.UTC)
	startOfNextDay := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.True(t, endOfPrevDay.Before(*from))
	assert.True(t, startOfNextDay.After(*to))
}

func TestParseDateRangeOpenEnded(t *testing.T) {
	from, to, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	from, to, err = ParseDateRange("2024-06-01", "")
	require.NoError(t, err)
	assert.NotNil(t, from)
	assert.Nil(t, to)
}

func TestParseDateRangeInvalid(t *testing.T) {
	var ve *apperr.ValidationError

	_, _, err := ParseDateRange("01-01-2024", "")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "from_date")

	_, _, err = ParseDateRange("", "not-a-date")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "to_date")

	_, _, err = ParseDateRange("2024-02-01", "2024-01-01")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "from_date")
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 1, 31, 15, 45, 0, 0, time.UTC)
	assert.Equal(t, "leads_report_20240131_154500.csv", Filename(now))
}

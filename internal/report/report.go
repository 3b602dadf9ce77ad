// Package report builds the CSV lead export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Ysherlin/ec3-assessment/internal/apperr"
	"github.com/Ysherlin/ec3-assessment/internal/model"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"

	// Rows between flushes of the csv writer; keeps memory bounded on large
	// exports while still batching small writes.
	flushEvery = 100
)

var header = []string{"id", "name", "email", "phone", "source", "created_time"}

// RowSource feeds leads to the writer one at a time, most recent first.
type RowSource func(fn func(model.Lead) error) error

// ParseDateRange parses optional YYYY-MM-DD bounds into inclusive timestamps:
// from at the start of its day, to at the very end of its day. No timezone
// conversion is performed; stored timestamps are naive.
func ParseDateRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return nil, nil, apperr.NewValidationError().Add("from_date", "must be a valid date in YYYY-MM-DD format")
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return nil, nil, apperr.NewValidationError().Add("to_date", "must be a valid date in YYYY-MM-DD format")
		}
		end := t.Add(24*time.Hour - time.Microsecond)
		to = &end
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, apperr.NewValidationError().Add("from_date", "must not be after to_date")
	}
	return from, to, nil
}

// Filename returns the attachment name for a report generated at the given
// instant, e.g. leads_report_20240131_154500.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("leads_report_%s.csv", now.Format("20060102_150405"))
}

// Write streams the CSV document to w: header row first, then one record per
// lead from the source. Nil phone/source render as empty cells. Returns the
// number of data rows written.
func Write(w io.Writer, rows RowSource) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return 0, err
	}

	count := 0
	err := rows(func(lead model.Lead) error {
		if err := writer.Write(record(lead)); err != nil {
			return err
		}
		count++
		if count%flushEvery == 0 {
			writer.Flush()
			if err := writer.Error(); err != nil {
				return err
			}
		}
		return nil
	})

	writer.Flush()
	if err == nil {
		err = writer.Error()
	}
	return count, err
}

func record(lead model.Lead) []string {
	return []string{
		strconv.FormatUint(uint64(lead.ID), 10),
		lead.Name,
		lead.Email,
		derefOrEmpty(lead.Phone),
		derefOrEmpty(lead.Source),
		lead.CreatedTime.Format(timestampLayout),
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

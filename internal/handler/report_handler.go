package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Ysherlin/ec3-assessment/internal/model"
	"github.com/Ysherlin/ec3-assessment/internal/report"
	"github.com/Ysherlin/ec3-assessment/internal/repository"
	"github.com/Ysherlin/ec3-assessment/pkg/logger"
	"github.com/Ysherlin/ec3-assessment/prometheus"
)

// Report handles GET /leads/report: a CSV attachment streamed straight from
// the repository cursor, most recent lead first. Rows are never accumulated
// in memory; the csv writer flushes as it goes.
func (h *LeadHandler) Report(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordLeadOperation("report")

	from, to, err := report.ParseDateRange(c.QueryParam("from_date"), c.QueryParam("to_date"))
	if err != nil {
		return respondError(c, err)
	}
	filter := repository.ReportFilter{
		From:   from,
		To:     to,
		Name:   c.QueryParam("name"),
		Email:  c.QueryParam("email"),
		Source: c.QueryParam("source"),
	}

	filename := report.Filename(time.Now())
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", filename))
	c.Response().WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	rows, err := report.Write(c.Response(), func(fn func(model.Lead) error) error {
		return h.store.ForEachReportRow(ctx, filter, fn)
	})
	if err != nil {
		// The 200 status and part of the body are already on the wire; all
		// that is left is to log and truncate the output.
		log.Error("Report generation aborted",
			zap.String("filename", filename),
			zap.Int("rows_written", rows),
			zap.Error(err))
		return nil
	}

	prometheus.RecordReport(rows)
	log.Info("Report generated",
		zap.String("filename", filename),
		zap.Int("rows", rows))
	return nil
}

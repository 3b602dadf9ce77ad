package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Ysherlin/ec3-assessment/internal/apperr"
	"github.com/Ysherlin/ec3-assessment/internal/model"
	"github.com/Ysherlin/ec3-assessment/prometheus"
)

// ListFilter narrows a lead listing. Empty Name/Email/Source are ignored;
// the active filters are combined with AND. Skip and Limit are applied as
// given; the handlers validate their ranges before calling in.
type ListFilter struct {
	Name   string // case-insensitive substring
	Email  string // exact match
	Source string // case-insensitive substring
	Skip   int
	Limit  int
}

// ReportFilter narrows the CSV report. From/To are inclusive bounds on
// created_time, already expanded to full-day boundaries by the caller.
type ReportFilter struct {
	From   *time.Time
	To     *time.Time
	Name   string
	Email  string
	Source string
}

// LeadRepository performs all lead persistence against an injected database
// handle. Mutations run inside a transaction per call: committed on success,
// rolled back on any error.
type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create persists a new lead. The email-existence check inside the
// transaction catches the common case up front; two concurrent creates can
// still both pass it, so the unique index on email is the final arbiter and
// its violation is translated to ErrDuplicateEmail as well.
func (r *LeadRepository) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Lead{}).Where("email = ?", lead.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.ErrDuplicateEmail
		}

		if lead.CreatedTime.IsZero() {
			lead.CreatedTime = time.Now().UTC()
		}
		if err := tx.Create(lead).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperr.WrapStorage("create lead", err)
	}
	return lead, nil
}

// GetByID returns the lead or ErrLeadNotFound.
func (r *LeadRepository) GetByID(ctx context.Context, id uint) (*model.Lead, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var lead model.Lead
	err := r.db.WithContext(ctx).First(&lead, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrLeadNotFound
		}
		return nil, apperr.WrapStorage("get lead", err)
	}
	return &lead, nil
}

// List returns leads matching the filter with OFFSET/LIMIT pagination. No
// ordering is guaranteed; the report is the ordered variant.
func (r *LeadRepository) List(ctx context.Context, filter ListFilter) ([]model.Lead, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.Lead{})
	query = applyFieldFilters(query, filter.Name, filter.Email, filter.Source)

	leads := []model.Lead{}
	err := query.Offset(filter.Skip).Limit(filter.Limit).Find(&leads).Error
	if err != nil {
		return nil, apperr.WrapStorage("list leads", err)
	}
	return leads, nil
}

// Update applies exactly the given columns to the lead and returns the fresh
// row. Absent columns keep their stored values. An email change that collides
// with another lead maps to ErrDuplicateEmail.
func (r *LeadRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Lead, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var lead model.Lead
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lead, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrLeadNotFound
			}
			return err
		}

		if len(fields) > 0 {
			if err := tx.Model(&lead).Updates(fields).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.ErrDuplicateEmail
				}
				return err
			}
		}

		// Re-read inside the transaction so the response reflects exactly
		// what was committed.
		return tx.First(&lead, id).Error
	})
	if err != nil {
		return nil, apperr.WrapStorage("update lead", err)
	}
	return &lead, nil
}

// Delete removes the lead permanently. Deleting an absent id returns
// ErrLeadNotFound, not a silent no-op.
func (r *LeadRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := r.db.WithContext(ctx).Delete(&model.Lead{}, id)
	if result.Error != nil {
		return apperr.WrapStorage("delete lead", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrLeadNotFound
	}
	return nil
}

// ForEachReportRow streams report rows ordered by created_time descending,
// invoking fn once per row. The cursor lives only for the duration of the
// call; cancelling ctx (client disconnect) aborts the scan.
func (r *LeadRepository) ForEachReportRow(ctx context.Context, filter ReportFilter, fn func(model.Lead) error) error {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.Lead{})
	query = applyFieldFilters(query, filter.Name, filter.Email, filter.Source)
	if filter.From != nil {
		query = query.Where("created_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_time <= ?", *filter.To)
	}

	rows, err := query.Order("created_time DESC").Rows()
	if err != nil {
		return apperr.WrapStorage("report leads", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return apperr.WrapStorage("report leads", err)
		}
		var lead model.Lead
		if err := r.db.ScanRows(rows, &lead); err != nil {
			return apperr.WrapStorage("report leads", err)
		}
		if err := fn(lead); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return apperr.WrapStorage("report leads", err)
	}
	return nil
}

func applyFieldFilters(query *gorm.DB, name, email, source string) *gorm.DB {
	if name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if email != "" {
		query = query.Where("email = ?", email)
	}
	if source != "" {
		query = query.Where("source ILIKE ?", "%"+source+"%")
	}
	return query
}

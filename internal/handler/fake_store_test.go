package handler

import (
	"context"
	"sort"
	"strings"

	"github.com/Ysherlin/ec3-assessment/internal/apperr"
	"github.com/Ysherlin/ec3-assessment/internal/model"
	"github.com/Ysherlin/ec3-assessment/internal/repository"
)

// fakeStore is an in-memory LeadStore used to exercise the handlers without
// a database. It mirrors the repository's semantics: duplicate email checks,
// not-found sentinels, conjunctive filters, created_time DESC report order.
type fakeStore struct {
	leads  map[uint]model.Lead
	nextID uint

	// forcedErr, when set, is returned by every operation
	forcedErr error

	createCalls      int
	lastUpdateFields map[string]interface{}
	lastListFilter   repository.ListFilter
	lastReportFilter repository.ReportFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{leads: map[uint]model.Lead{}, nextID: 1}
}

func (s *fakeStore) add(lead model.Lead) model.Lead {
	lead.ID = s.nextID
	s.nextID++
	s.leads[lead.ID] = lead
	return lead
}

func (s *fakeStore) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	s.createCalls++
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}
	for _, existing := range s.leads {
		if existing.Email == lead.Email {
			return nil, apperr.ErrDuplicateEmail
		}
	}
	if lead.CreatedTime.IsZero() {
		lead.CreatedTime = fixedNow
	}
	stored := s.add(*lead)
	*lead = stored
	return lead, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id uint) (*model.Lead, error) {
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}
	lead, ok := s.leads[id]
	if !ok {
		return nil, apperr.ErrLeadNotFound
	}
	return &lead, nil
}

func (s *fakeStore) List(ctx context.Context, filter repository.ListFilter) ([]model.Lead, error) {
	s.lastListFilter = filter
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}

	matched := s.matching(filter.Name, filter.Email, filter.Source)
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if filter.Skip >= len(matched) {
		return []model.Lead{}, nil
	}
	matched = matched[filter.Skip:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *fakeStore) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Lead, error) {
	s.lastUpdateFields = fields
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}
	lead, ok := s.leads[id]
	if !ok {
		return nil, apperr.ErrLeadNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			lead.Name = value.(string)
		case "email":
			lead.Email = value.(string)
		case "phone":
			lead.Phone = value.(*string)
		case "source":
			lead.Source = value.(*string)
		}
	}
	s.leads[id] = lead
	return &lead, nil
}

func (s *fakeStore) Delete(ctx context.Context, id uint) error {
	if s.forcedErr != nil {
		return s.forcedErr
	}
	if _, ok := s.leads[id]; !ok {
		return apperr.ErrLeadNotFound
	}
	delete(s.leads, id)
	return nil
}

func (s *fakeStore) ForEachReportRow(ctx context.Context, filter repository.ReportFilter, fn func(model.Lead) error) error {
	s.lastReportFilter = filter
	if s.forcedErr != nil {
		return s.forcedErr
	}

	matched := s.matching(filter.Name, filter.Email, filter.Source)
	filtered := matched[:0]
	for _, lead := range matched {
		if filter.From != nil && lead.CreatedTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && lead.CreatedTime.After(*filter.To) {
			continue
		}
		filtered = append(filtered, lead)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedTime.After(filtered[j].CreatedTime)
	})

	for _, lead := range filtered {
		if err := fn(lead); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) matching(name, email, source string) []model.Lead {
	matched := []model.Lead{}
	for _, lead := range s.leads {
		if name != "" && !strings.Contains(strings.ToLower(lead.Name), strings.ToLower(name)) {
			continue
		}
		if email != "" && lead.Email != email {
			continue
		}
		if source != "" {
			if lead.Source == nil || !strings.Contains(strings.ToLower(*lead.Source), strings.ToLower(source)) {
				continue
			}
		}
		matched = append(matched, lead)
	}
	return matched
}

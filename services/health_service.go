package services

import (
	"strings"
	"time"

	"github.com/cppla/riqqa/health"
	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/store"
)

// HealthService edits the local health record and derives its predictions.
// Nothing here reaches the data source.
type HealthService struct {
	store *store.Store
	now   func() time.Time
}

func NewHealthService(st *store.Store) *HealthService {
	return &HealthService{store: st, now: time.Now}
}

// SavePeriod records the last period date and cycle length. An unparsable
// cycle length falls back to the default.
func (s *HealthService) SavePeriod(lastPeriod, cycleLength string) error {
	if strings.TrimSpace(lastPeriod) == "" {
		return models.NewValidationError(models.MsgFillAllFields)
	}
	d, err := health.ParseDate(lastPeriod)
	if err != nil {
		return models.NewValidationError(models.MsgInvalidDate)
	}
	cycle := health.ParseCycleLength(cycleLength)
	s.store.UpdateHealthData(models.HealthPatch{LastPeriodDate: &d, CycleLength: &cycle})
	return nil
}

func (s *HealthService) SavePregnancy(start string) error {
	if strings.TrimSpace(start) == "" {
		return models.NewValidationError(models.MsgFillAllFields)
	}
	d, err := health.ParseDate(start)
	if err != nil {
		return models.NewValidationError(models.MsgInvalidDate)
	}
	s.store.UpdateHealthData(models.HealthPatch{PregnancyStartDate: &d})
	return nil
}

// RecordFeeding stamps a feeding at the current time.
func (s *HealthService) RecordFeeding() {
	s.store.RecordFeeding(s.now().UTC())
}

func (s *HealthService) Summary(locale string) health.Summary {
	return health.Summarize(s.store.Snapshot().HealthData, s.now(), locale)
}

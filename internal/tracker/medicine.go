package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/store"
)

// AddMedicine writes a medicine record to the active backend and
// mirrors the stored record. A positive interval schedules the first
// reminder from the record's time.
func (c *Controller) AddMedicine(ctx context.Context, m model.Medicine) (model.Medicine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m.Timezone == "" {
		m.Timezone = c.settings.Timezone
	}
	if m.IntervalHours > 0 && m.NextDose == nil {
		next := m.Time.Add(hoursToDuration(m.IntervalHours))
		m.NextDose = &next
	}
	if err := m.Validate(); err != nil {
		return model.Medicine{}, err
	}

	if c.mode == ModePrimary {
		id, err := c.records.AddMedicine(ctx, m)
		if err != nil {
			return model.Medicine{}, err
		}
		stored, err := c.records.GetMedicine(ctx, id)
		if err != nil {
			return model.Medicine{}, err
		}
		c.medicines = append(c.medicines, *stored)
		return *stored, nil
	}

	m.ID = c.flat.NextID()
	m.Timestamp, m.Date, m.YearMonth = model.TimeIndex(m.Time)
	m.CreatedAt = time.Now().UTC()
	updated := append(append([]model.Medicine(nil), c.medicines...), m)
	if err := c.resave(model.CollectionMedicines, updated); err != nil {
		return model.Medicine{}, err
	}
	c.medicines = updated
	return m, nil
}

// ListMedicines returns the mirrored medicine records for a period,
// newest first.
func (c *Controller) ListMedicines(period Period) []model.Medicine {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var out []model.Medicine
	for i := len(c.medicines) - 1; i >= 0; i-- {
		if inPeriod(c.medicines[i].Time, period, now) {
			out = append(out, c.medicines[i])
		}
	}
	return out
}

// DeleteMedicine removes a medicine record from the active backend and
// the mirror.
func (c *Controller) DeleteMedicine(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePrimary {
		if err := c.records.DeleteMedicine(ctx, id); err != nil {
			return err
		}
		c.medicines = removeMedicineByID(c.medicines, id)
		return nil
	}

	updated := removeMedicineByID(append([]model.Medicine(nil), c.medicines...), id)
	if err := c.resave(model.CollectionMedicines, updated); err != nil {
		return err
	}
	c.medicines = updated
	return nil
}

// MarkMedicineTaken records a dose-taken transition: a history record
// is written with no schedule, and the scheduled medicine's reminder
// advances by its interval from the taken time.
func (c *Controller) MarkMedicineTaken(ctx context.Context, id int64, takenAt time.Time) (model.Medicine, error) {
	c.mu.Lock()
	original, ok := c.findMedicine(id)
	c.mu.Unlock()
	if !ok {
		return model.Medicine{}, fmt.Errorf("medicine %d: %w", id, store.ErrNotFound)
	}

	history := model.Medicine{
		Time:          takenAt,
		Name:          original.Name,
		Dose:          original.Dose,
		IntervalHours: 0,
		Notes:         original.Notes,
		Active:        false,
		Timezone:      original.Timezone,
	}
	stored, err := c.AddMedicine(ctx, history)
	if err != nil {
		return model.Medicine{}, fmt.Errorf("recording taken dose: %w", err)
	}

	if original.IntervalHours > 0 {
		next := takenAt.Add(hoursToDuration(original.IntervalHours))
		if err := c.updateMedicineNextDose(ctx, id, &next); err != nil {
			return model.Medicine{}, err
		}
	}
	return stored, nil
}

// StopMedicineTreatment deactivates a scheduled medicine and clears
// its reminder.
func (c *Controller) StopMedicineTreatment(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i := range c.medicines {
		if c.medicines[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("medicine %d: %w", id, store.ErrNotFound)
	}

	if c.mode == ModePrimary {
		inactive := false
		patch := model.MedicinePatch{Active: &inactive, ClearNextDose: true}
		if err := c.records.UpdateMedicine(ctx, id, patch); err != nil {
			return err
		}
		c.medicines[idx].Active = false
		c.medicines[idx].NextDose = nil
		return nil
	}

	updated := append([]model.Medicine(nil), c.medicines...)
	updated[idx].Active = false
	updated[idx].NextDose = nil
	if err := c.resave(model.CollectionMedicines, updated); err != nil {
		return err
	}
	c.medicines = updated
	return nil
}

// updateMedicineNextDose advances one medicine's reminder in the
// active backend and the mirror.
func (c *Controller) updateMedicineNextDose(ctx context.Context, id int64, next *time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i := range c.medicines {
		if c.medicines[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("medicine %d: %w", id, store.ErrNotFound)
	}

	if c.mode == ModePrimary {
		if err := c.records.UpdateMedicine(ctx, id, model.MedicinePatch{NextDose: next}); err != nil {
			return err
		}
		c.medicines[idx].NextDose = next
		return nil
	}

	updated := append([]model.Medicine(nil), c.medicines...)
	updated[idx].NextDose = next
	if err := c.resave(model.CollectionMedicines, updated); err != nil {
		return err
	}
	c.medicines = updated
	return nil
}

func (c *Controller) findMedicine(id int64) (model.Medicine, bool) {
	for _, m := range c.medicines {
		if m.ID == id {
			return m, true
		}
	}
	return model.Medicine{}, false
}

func removeMedicineByID(medicines []model.Medicine, id int64) []model.Medicine {
	out := medicines[:0]
	for _, m := range medicines {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

// hoursToDuration converts a fractional hour interval to a duration.
func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

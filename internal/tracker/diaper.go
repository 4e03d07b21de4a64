package tracker

import (
	"context"
	"time"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// AddDiaper writes a diaper change to the active backend and mirrors
// the stored record.
func (c *Controller) AddDiaper(ctx context.Context, d model.Diaper) (model.Diaper, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d.Timezone == "" {
		d.Timezone = c.settings.Timezone
	}
	if d.Level == 0 {
		d.Level = 1
	}
	if err := d.Validate(); err != nil {
		return model.Diaper{}, err
	}

	if c.mode == ModePrimary {
		id, err := c.records.AddDiaper(ctx, d)
		if err != nil {
			return model.Diaper{}, err
		}
		stored, err := c.records.GetDiaper(ctx, id)
		if err != nil {
			return model.Diaper{}, err
		}
		c.diapers = append(c.diapers, *stored)
		return *stored, nil
	}

	d.ID = c.flat.NextID()
	d.Timestamp, d.Date, d.YearMonth = model.TimeIndex(d.Time)
	d.CreatedAt = time.Now().UTC()
	updated := append(append([]model.Diaper(nil), c.diapers...), d)
	if err := c.resave(model.CollectionDiapers, updated); err != nil {
		return model.Diaper{}, err
	}
	c.diapers = updated
	return d, nil
}

// ListDiapers returns the mirrored diaper changes for a period, newest
// first.
func (c *Controller) ListDiapers(period Period) []model.Diaper {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var out []model.Diaper
	for i := len(c.diapers) - 1; i >= 0; i-- {
		if inPeriod(c.diapers[i].Time, period, now) {
			out = append(out, c.diapers[i])
		}
	}
	return out
}

// DeleteDiaper removes a diaper change from the active backend and the
// mirror.
func (c *Controller) DeleteDiaper(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePrimary {
		if err := c.records.DeleteDiaper(ctx, id); err != nil {
			return err
		}
		c.diapers = removeDiaperByID(c.diapers, id)
		return nil
	}

	updated := removeDiaperByID(append([]model.Diaper(nil), c.diapers...), id)
	if err := c.resave(model.CollectionDiapers, updated); err != nil {
		return err
	}
	c.diapers = updated
	return nil
}

func removeDiaperByID(diapers []model.Diaper, id int64) []model.Diaper {
	out := diapers[:0]
	for _, d := range diapers {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

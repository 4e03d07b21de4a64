package tracker

import (
	"context"
	"time"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// AddFeeding writes a feeding to the active backend and mirrors the
// stored record. Missing interval and timezone fall back to settings.
func (c *Controller) AddFeeding(ctx context.Context, f model.Feeding) (model.Feeding, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f.NextInterval <= 0 {
		f.NextInterval = c.settings.FeedingIntervalHours
	}
	if f.Timezone == "" {
		f.Timezone = c.settings.Timezone
	}
	if err := f.Validate(); err != nil {
		return model.Feeding{}, err
	}

	if c.mode == ModePrimary {
		id, err := c.records.AddFeeding(ctx, f)
		if err != nil {
			return model.Feeding{}, err
		}
		stored, err := c.records.GetFeeding(ctx, id)
		if err != nil {
			return model.Feeding{}, err
		}
		c.feedings = append(c.feedings, *stored)
		return *stored, nil
	}

	f.ID = c.flat.NextID()
	f.Timestamp, f.Date, f.YearMonth = model.TimeIndex(f.Time)
	f.CreatedAt = time.Now().UTC()
	updated := append(append([]model.Feeding(nil), c.feedings...), f)
	if err := c.resave(model.CollectionFeedings, updated); err != nil {
		return model.Feeding{}, err
	}
	c.feedings = updated
	return f, nil
}

// ListFeedings returns the mirrored feedings for a period, newest first.
func (c *Controller) ListFeedings(period Period) []model.Feeding {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var out []model.Feeding
	for i := len(c.feedings) - 1; i >= 0; i-- {
		if inPeriod(c.feedings[i].Time, period, now) {
			out = append(out, c.feedings[i])
		}
	}
	return out
}

// DeleteFeeding removes a feeding from the active backend and the mirror.
func (c *Controller) DeleteFeeding(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePrimary {
		if err := c.records.DeleteFeeding(ctx, id); err != nil {
			return err
		}
		c.feedings = removeFeedingByID(c.feedings, id)
		return nil
	}

	updated := removeFeedingByID(append([]model.Feeding(nil), c.feedings...), id)
	if err := c.resave(model.CollectionFeedings, updated); err != nil {
		return err
	}
	c.feedings = updated
	return nil
}

func removeFeedingByID(feedings []model.Feeding, id int64) []model.Feeding {
	out := feedings[:0]
	for _, f := range feedings {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

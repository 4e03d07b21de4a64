package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/store"
)

// AddMeasurement writes a growth measurement to the active backend and
// mirrors the stored record.
func (c *Controller) AddMeasurement(ctx context.Context, m model.Measurement) (model.Measurement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := m.Validate(); err != nil {
		return model.Measurement{}, err
	}

	if c.mode == ModePrimary {
		id, err := c.records.AddMeasurement(ctx, m)
		if err != nil {
			return model.Measurement{}, err
		}
		stored, err := c.records.GetMeasurement(ctx, id)
		if err != nil {
			return model.Measurement{}, err
		}
		c.measurements = append(c.measurements, *stored)
		return *stored, nil
	}

	m.ID = c.flat.NextID()
	m.Timestamp, m.Date, m.YearMonth = model.TimeIndex(m.Time)
	m.CreatedAt = time.Now().UTC()
	updated := append(append([]model.Measurement(nil), c.measurements...), m)
	if err := c.resave(model.CollectionMeasurements, updated); err != nil {
		return model.Measurement{}, err
	}
	c.measurements = updated
	return m, nil
}

// ListMeasurements returns the mirrored measurements for a period,
// newest first.
func (c *Controller) ListMeasurements(period Period) []model.Measurement {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var out []model.Measurement
	for i := len(c.measurements) - 1; i >= 0; i-- {
		if inPeriod(c.measurements[i].Time, period, now) {
			out = append(out, c.measurements[i])
		}
	}
	return out
}

// DeleteMeasurement removes a measurement from the active backend and
// the mirror.
func (c *Controller) DeleteMeasurement(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePrimary {
		if err := c.records.DeleteMeasurement(ctx, id); err != nil {
			return err
		}
		c.measurements = removeMeasurementByID(c.measurements, id)
		return nil
	}

	updated := removeMeasurementByID(append([]model.Measurement(nil), c.measurements...), id)
	if err := c.resave(model.CollectionMeasurements, updated); err != nil {
		return err
	}
	c.measurements = updated
	return nil
}

// AddTemperature writes a temperature reading to the active backend
// and mirrors the stored record.
func (c *Controller) AddTemperature(ctx context.Context, t model.Temperature) (model.Temperature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := t.Validate(); err != nil {
		return model.Temperature{}, err
	}

	if c.mode == ModePrimary {
		id, err := c.records.AddTemperature(ctx, t)
		if err != nil {
			return model.Temperature{}, err
		}
		stored, err := c.records.GetTemperature(ctx, id)
		if err != nil {
			return model.Temperature{}, err
		}
		c.temperatures = append(c.temperatures, *stored)
		return *stored, nil
	}

	t.ID = c.flat.NextID()
	t.Timestamp, t.Date, t.YearMonth = model.TimeIndex(t.Time)
	t.CreatedAt = time.Now().UTC()
	updated := append(append([]model.Temperature(nil), c.temperatures...), t)
	if err := c.resave(model.CollectionTemperatures, updated); err != nil {
		return model.Temperature{}, err
	}
	c.temperatures = updated
	return t, nil
}

// ListTemperatures returns the mirrored temperature readings for a
// period, newest first.
func (c *Controller) ListTemperatures(period Period) []model.Temperature {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var out []model.Temperature
	for i := len(c.temperatures) - 1; i >= 0; i-- {
		if inPeriod(c.temperatures[i].Time, period, now) {
			out = append(out, c.temperatures[i])
		}
	}
	return out
}

// DeleteTemperature removes a temperature reading from the active
// backend and the mirror.
func (c *Controller) DeleteTemperature(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePrimary {
		if err := c.records.DeleteTemperature(ctx, id); err != nil {
			return err
		}
		c.temperatures = removeTemperatureByID(c.temperatures, id)
		return nil
	}

	updated := removeTemperatureByID(append([]model.Temperature(nil), c.temperatures...), id)
	if err := c.resave(model.CollectionTemperatures, updated); err != nil {
		return err
	}
	c.temperatures = updated
	return nil
}

// AddAppointment writes an appointment to the active backend and
// mirrors the stored record.
func (c *Controller) AddAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if a.Type == "" {
		a.Type = model.AppointmentOther
	}
	if err := a.Validate(); err != nil {
		return model.Appointment{}, err
	}

	if c.mode == ModePrimary {
		id, err := c.records.AddAppointment(ctx, a)
		if err != nil {
			return model.Appointment{}, err
		}
		stored, err := c.records.GetAppointment(ctx, id)
		if err != nil {
			return model.Appointment{}, err
		}
		c.appointments = append(c.appointments, *stored)
		return *stored, nil
	}

	a.ID = c.flat.NextID()
	a.Timestamp, a.Date, a.YearMonth = model.TimeIndex(a.Time)
	a.CreatedAt = time.Now().UTC()
	updated := append(append([]model.Appointment(nil), c.appointments...), a)
	if err := c.resave(model.CollectionAppointments, updated); err != nil {
		return model.Appointment{}, err
	}
	c.appointments = updated
	return a, nil
}

// ListAppointments returns the mirrored appointments for a period,
// newest first.
func (c *Controller) ListAppointments(period Period) []model.Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var out []model.Appointment
	for i := len(c.appointments) - 1; i >= 0; i-- {
		if inPeriod(c.appointments[i].Time, period, now) {
			out = append(out, c.appointments[i])
		}
	}
	return out
}

// MarkAppointmentCompleted flips an appointment to completed in the
// active backend and the mirror.
func (c *Controller) MarkAppointmentCompleted(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i := range c.appointments {
		if c.appointments[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("appointment %d: %w", id, store.ErrNotFound)
	}

	if c.mode == ModePrimary {
		completed := true
		if err := c.records.UpdateAppointment(ctx, id, model.AppointmentPatch{Completed: &completed}); err != nil {
			return err
		}
		c.appointments[idx].Completed = true
		return nil
	}

	updated := append([]model.Appointment(nil), c.appointments...)
	updated[idx].Completed = true
	if err := c.resave(model.CollectionAppointments, updated); err != nil {
		return err
	}
	c.appointments = updated
	return nil
}

// DeleteAppointment removes an appointment from the active backend and
// the mirror.
func (c *Controller) DeleteAppointment(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePrimary {
		if err := c.records.DeleteAppointment(ctx, id); err != nil {
			return err
		}
		c.appointments = removeAppointmentByID(c.appointments, id)
		return nil
	}

	updated := removeAppointmentByID(append([]model.Appointment(nil), c.appointments...), id)
	if err := c.resave(model.CollectionAppointments, updated); err != nil {
		return err
	}
	c.appointments = updated
	return nil
}

// AddJournalEntry writes a journal entry to the active backend and
// mirrors the stored record.
func (c *Controller) AddJournalEntry(ctx context.Context, j model.JournalEntry) (model.JournalEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if j.Category == "" {
		j.Category = model.JournalNote
	}
	if err := j.Validate(); err != nil {
		return model.JournalEntry{}, err
	}

	if c.mode == ModePrimary {
		id, err := c.records.AddJournalEntry(ctx, j)
		if err != nil {
			return model.JournalEntry{}, err
		}
		stored, err := c.records.GetJournalEntry(ctx, id)
		if err != nil {
			return model.JournalEntry{}, err
		}
		c.journal = append(c.journal, *stored)
		return *stored, nil
	}

	j.ID = c.flat.NextID()
	j.Timestamp, j.Date, j.YearMonth = model.TimeIndex(j.Time)
	j.CreatedAt = time.Now().UTC()
	updated := append(append([]model.JournalEntry(nil), c.journal...), j)
	if err := c.resave(model.CollectionJournal, updated); err != nil {
		return model.JournalEntry{}, err
	}
	c.journal = updated
	return j, nil
}

// ListJournalEntries returns the mirrored journal entries for a
// period, newest first.
func (c *Controller) ListJournalEntries(period Period) []model.JournalEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var out []model.JournalEntry
	for i := len(c.journal) - 1; i >= 0; i-- {
		if inPeriod(c.journal[i].Time, period, now) {
			out = append(out, c.journal[i])
		}
	}
	return out
}

// DeleteJournalEntry removes a journal entry from the active backend
// and the mirror.
func (c *Controller) DeleteJournalEntry(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePrimary {
		if err := c.records.DeleteJournalEntry(ctx, id); err != nil {
			return err
		}
		c.journal = removeJournalByID(c.journal, id)
		return nil
	}

	updated := removeJournalByID(append([]model.JournalEntry(nil), c.journal...), id)
	if err := c.resave(model.CollectionJournal, updated); err != nil {
		return err
	}
	c.journal = updated
	return nil
}

func removeMeasurementByID(measurements []model.Measurement, id int64) []model.Measurement {
	out := measurements[:0]
	for _, m := range measurements {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

func removeTemperatureByID(temps []model.Temperature, id int64) []model.Temperature {
	out := temps[:0]
	for _, t := range temps {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func removeAppointmentByID(appointments []model.Appointment, id int64) []model.Appointment {
	out := appointments[:0]
	for _, a := range appointments {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func removeJournalByID(entries []model.JournalEntry, id int64) []model.JournalEntry {
	out := entries[:0]
	for _, j := range entries {
		if j.ID != id {
			out = append(out, j)
		}
	}
	return out
}

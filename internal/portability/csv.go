// Package portability implements the delimited-text interchange
// boundary: one row per record, a record_type column saying which
// collection the row belongs to, and a fixed superset of columns
// covering every collection's fields. Times are RFC 3339.
package portability

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/tracker"
)

// ErrParse tags a malformed row. Bad rows are skipped, not fatal.
var ErrParse = errors.New("malformed row")

// header is the fixed column layout of the interchange format.
var header = []string{
	"record_type", "time",
	"type", "amount", "duration", "next_interval", "timezone",
	"has_pee", "has_poop", "level", "notes",
	"weight", "height",
	"name", "dose", "interval_hours", "active", "next_dose",
	"value",
	"title", "location", "completed",
	"category", "description", "tags",
}

// Record-type discriminants, one per collection.
const (
	typeFeeding     = "feeding"
	typeDiaper      = "diaper"
	typeMeasurement = "measurement"
	typeMedicine    = "medicine"
	typeTemperature = "temperature"
	typeAppointment = "appointment"
	typeJournal     = "journal"
)

// ImportResult reports what an Import call did. Errors lists the rows
// that failed to parse or insert; they do not abort the import.
type ImportResult struct {
	Imported map[string]int
	Errors   []string
}

// Export writes every collection to w in the interchange format.
func Export(c *tracker.Controller, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	for _, f := range c.ListFeedings(tracker.PeriodAll) {
		row := newRow(typeFeeding, f.Time)
		row.set("type", f.Type)
		row.setIntPtr("amount", f.Amount)
		row.setIntPtr("duration", f.Duration)
		row.set("next_interval", formatFloat(f.NextInterval))
		row.set("timezone", f.Timezone)
		if err := cw.Write(row.values); err != nil {
			return fmt.Errorf("writing feeding row: %w", err)
		}
	}
	for _, d := range c.ListDiapers(tracker.PeriodAll) {
		row := newRow(typeDiaper, d.Time)
		row.set("has_pee", formatBool(d.HasPee))
		row.set("has_poop", formatBool(d.HasPoop))
		row.set("level", strconv.Itoa(d.Level))
		row.set("notes", d.Notes)
		row.set("timezone", d.Timezone)
		if err := cw.Write(row.values); err != nil {
			return fmt.Errorf("writing diaper row: %w", err)
		}
	}
	for _, m := range c.ListMeasurements(tracker.PeriodAll) {
		row := newRow(typeMeasurement, m.Time)
		row.setFloatPtr("weight", m.Weight)
		row.setFloatPtr("height", m.Height)
		if err := cw.Write(row.values); err != nil {
			return fmt.Errorf("writing measurement row: %w", err)
		}
	}
	for _, m := range c.ListMedicines(tracker.PeriodAll) {
		row := newRow(typeMedicine, m.Time)
		row.set("name", m.Name)
		row.set("dose", m.Dose)
		row.set("interval_hours", formatFloat(m.IntervalHours))
		row.set("notes", m.Notes)
		row.set("active", formatBool(m.Active))
		if m.NextDose != nil {
			row.set("next_dose", m.NextDose.UTC().Format(time.RFC3339))
		}
		row.set("timezone", m.Timezone)
		if err := cw.Write(row.values); err != nil {
			return fmt.Errorf("writing medicine row: %w", err)
		}
	}
	for _, t := range c.ListTemperatures(tracker.PeriodAll) {
		row := newRow(typeTemperature, t.Time)
		row.set("value", formatFloat(t.Value))
		row.set("notes", t.Notes)
		if err := cw.Write(row.values); err != nil {
			return fmt.Errorf("writing temperature row: %w", err)
		}
	}
	for _, a := range c.ListAppointments(tracker.PeriodAll) {
		row := newRow(typeAppointment, a.Time)
		row.set("type", a.Type)
		row.set("title", a.Title)
		row.set("location", a.Location)
		row.set("notes", a.Notes)
		row.set("completed", formatBool(a.Completed))
		if err := cw.Write(row.values); err != nil {
			return fmt.Errorf("writing appointment row: %w", err)
		}
	}
	for _, j := range c.ListJournalEntries(tracker.PeriodAll) {
		row := newRow(typeJournal, j.Time)
		row.set("category", j.Category)
		row.set("title", j.Title)
		row.set("description", j.Description)
		row.set("tags", strings.Join(j.Tags, ";"))
		if err := cw.Write(row.values); err != nil {
			return fmt.Errorf("writing journal row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Import reads rows from r and appends them to the matching collections
// through the controller's normal add path, assigning fresh ids. Rows
// that fail to parse are recorded and skipped; no deduplication is
// attempted against existing records.
func Import(ctx context.Context, c *tracker.Controller, r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	result := ImportResult{Imported: make(map[string]int)}

	first, err := cr.Read()
	if err == io.EOF {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("reading import header: %w", err)
	}
	if len(first) == 0 || first[0] != "record_type" {
		return result, fmt.Errorf("%w: missing header row", ErrParse)
	}

	cols := make(map[string]int, len(first))
	for i, name := range first {
		cols[name] = i
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		row := importedRow{cols: cols, values: record}
		recordType := row.get("record_type")
		if err := importRow(ctx, c, recordType, row, &result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
		}
	}

	return result, nil
}

func importRow(ctx context.Context, c *tracker.Controller, recordType string, row importedRow, result *ImportResult) error {
	t, err := row.getTime("time")
	if err != nil {
		return err
	}

	switch recordType {
	case typeFeeding:
		f := model.Feeding{
			Time:     t,
			Type:     row.get("type"),
			Timezone: row.get("timezone"),
		}
		if f.Amount, err = row.getIntPtr("amount"); err != nil {
			return err
		}
		if f.Duration, err = row.getIntPtr("duration"); err != nil {
			return err
		}
		if f.NextInterval, err = row.getFloat("next_interval"); err != nil {
			return err
		}
		if _, err := c.AddFeeding(ctx, f); err != nil {
			return err
		}
		result.Imported[model.CollectionFeedings]++

	case typeDiaper:
		d := model.Diaper{
			Time:     t,
			Notes:    row.get("notes"),
			Timezone: row.get("timezone"),
		}
		if d.HasPee, err = row.getBool("has_pee"); err != nil {
			return err
		}
		if d.HasPoop, err = row.getBool("has_poop"); err != nil {
			return err
		}
		if d.Level, err = row.getInt("level"); err != nil {
			return err
		}
		if _, err := c.AddDiaper(ctx, d); err != nil {
			return err
		}
		result.Imported[model.CollectionDiapers]++

	case typeMeasurement:
		m := model.Measurement{Time: t}
		if m.Weight, err = row.getFloatPtr("weight"); err != nil {
			return err
		}
		if m.Height, err = row.getFloatPtr("height"); err != nil {
			return err
		}
		if _, err := c.AddMeasurement(ctx, m); err != nil {
			return err
		}
		result.Imported[model.CollectionMeasurements]++

	case typeMedicine:
		m := model.Medicine{
			Time:     t,
			Name:     row.get("name"),
			Dose:     row.get("dose"),
			Notes:    row.get("notes"),
			Timezone: row.get("timezone"),
		}
		if m.IntervalHours, err = row.getFloat("interval_hours"); err != nil {
			return err
		}
		if m.Active, err = row.getBool("active"); err != nil {
			return err
		}
		if nd := row.get("next_dose"); nd != "" {
			parsed, err := time.Parse(time.RFC3339, nd)
			if err != nil {
				return fmt.Errorf("%w: next_dose %q", ErrParse, nd)
			}
			m.NextDose = &parsed
		}
		if _, err := c.AddMedicine(ctx, m); err != nil {
			return err
		}
		result.Imported[model.CollectionMedicines]++

	case typeTemperature:
		temp := model.Temperature{Time: t, Notes: row.get("notes")}
		if temp.Value, err = row.getFloat("value"); err != nil {
			return err
		}
		if _, err := c.AddTemperature(ctx, temp); err != nil {
			return err
		}
		result.Imported[model.CollectionTemperatures]++

	case typeAppointment:
		a := model.Appointment{
			Time:     t,
			Type:     row.get("type"),
			Title:    row.get("title"),
			Location: row.get("location"),
			Notes:    row.get("notes"),
		}
		if a.Completed, err = row.getBool("completed"); err != nil {
			return err
		}
		if _, err := c.AddAppointment(ctx, a); err != nil {
			return err
		}
		result.Imported[model.CollectionAppointments]++

	case typeJournal:
		j := model.JournalEntry{
			Time:        t,
			Category:    row.get("category"),
			Title:       row.get("title"),
			Description: row.get("description"),
		}
		if tags := row.get("tags"); tags != "" {
			j.Tags = strings.Split(tags, ";")
		}
		if _, err := c.AddJournalEntry(ctx, j); err != nil {
			return err
		}
		result.Imported[model.CollectionJournal]++

	default:
		return fmt.Errorf("%w: unknown record_type %q", ErrParse, recordType)
	}

	return nil
}

// exportRow builds one output row against the fixed header.
type exportRow struct {
	values []string
}

func newRow(recordType string, t time.Time) exportRow {
	row := exportRow{values: make([]string, len(header))}
	row.set("record_type", recordType)
	row.set("time", t.UTC().Format(time.RFC3339))
	return row
}

func (r exportRow) set(column, value string) {
	for i, name := range header {
		if name == column {
			r.values[i] = value
			return
		}
	}
}

func (r exportRow) setIntPtr(column string, v *int) {
	if v != nil {
		r.set(column, strconv.Itoa(*v))
	}
}

func (r exportRow) setFloatPtr(column string, v *float64) {
	if v != nil {
		r.set(column, formatFloat(*v))
	}
}

// importedRow reads columns by name from a parsed line.
type importedRow struct {
	cols   map[string]int
	values []string
}

func (r importedRow) get(column string) string {
	i, ok := r.cols[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

func (r importedRow) getTime(column string) (time.Time, error) {
	raw := r.get(column)
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q", ErrParse, column, raw)
	}
	return t, nil
}

func (r importedRow) getInt(column string) (int, error) {
	raw := r.get(column)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrParse, column, raw)
	}
	return v, nil
}

func (r importedRow) getIntPtr(column string) (*int, error) {
	raw := r.get(column)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrParse, column, raw)
	}
	return &v, nil
}

func (r importedRow) getFloat(column string) (float64, error) {
	raw := r.get(column)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrParse, column, raw)
	}
	return v, nil
}

func (r importedRow) getFloatPtr(column string) (*float64, error) {
	raw := r.get(column)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrParse, column, raw)
	}
	return &v, nil
}

func (r importedRow) getBool(column string) (bool, error) {
	raw := r.get(column)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s %q", ErrParse, column, raw)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

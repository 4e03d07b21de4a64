package model

import "time"

// TimeIndex computes the derived index fields for a record time: the
// epoch-millisecond timestamp plus the date and year-month keys the
// stores index on. Keys are formatted from the instant in UTC so the
// same instant always produces the same keys.
func TimeIndex(t time.Time) (timestamp int64, date, yearMonth string) {
	u := t.UTC()
	return u.UnixMilli(), u.Format("2006-01-02"), u.Format("2006-01")
}

// Collection names shared by both storage backends.
const (
	CollectionFeedings     = "feedings"
	CollectionDiapers      = "diapers"
	CollectionMeasurements = "measurements"
	CollectionMedicines    = "medicines"
	CollectionTemperatures = "temperatures"
	CollectionAppointments = "appointments"
	CollectionJournal      = "journal_entries"
)

// Collections lists every typed collection in a stable order.
var Collections = []string{
	CollectionFeedings,
	CollectionDiapers,
	CollectionMeasurements,
	CollectionMedicines,
	CollectionTemperatures,
	CollectionAppointments,
	CollectionJournal,
}

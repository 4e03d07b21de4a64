package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS feedings (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	time          DATETIME NOT NULL,
	type          TEXT NOT NULL CHECK(type IN ('bottle', 'breast')),
	amount        INTEGER,
	duration      INTEGER,
	next_interval REAL NOT NULL DEFAULT 3,
	timezone      TEXT NOT NULL DEFAULT '',
	timestamp     INTEGER NOT NULL,
	date          TEXT NOT NULL,
	year_month    TEXT NOT NULL,
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS diapers (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	time       DATETIME NOT NULL,
	has_pee    INTEGER NOT NULL CHECK(has_pee IN (0, 1)),
	has_poop   INTEGER NOT NULL CHECK(has_poop IN (0, 1)),
	level      INTEGER NOT NULL DEFAULT 1 CHECK(level BETWEEN 1 AND 3),
	notes      TEXT NOT NULL DEFAULT '',
	timezone   TEXT NOT NULL DEFAULT '',
	timestamp  INTEGER NOT NULL,
	date       TEXT NOT NULL,
	year_month TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	CHECK(has_pee = 1 OR has_poop = 1)
);

CREATE TABLE IF NOT EXISTS measurements (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	time       DATETIME NOT NULL,
	weight     REAL,
	height     REAL,
	timestamp  INTEGER NOT NULL,
	date       TEXT NOT NULL,
	year_month TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	CHECK(weight IS NOT NULL OR height IS NOT NULL)
);

CREATE TABLE IF NOT EXISTS medicines (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	time           DATETIME NOT NULL,
	name           TEXT NOT NULL,
	dose           TEXT NOT NULL DEFAULT '',
	interval_hours REAL NOT NULL DEFAULT 0,
	notes          TEXT NOT NULL DEFAULT '',
	active         INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
	next_dose      DATETIME,
	timezone       TEXT NOT NULL DEFAULT '',
	timestamp      INTEGER NOT NULL,
	date           TEXT NOT NULL,
	year_month     TEXT NOT NULL,
	created_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS temperatures (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	time       DATETIME NOT NULL,
	value      REAL NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	timestamp  INTEGER NOT NULL,
	date       TEXT NOT NULL,
	year_month TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS appointments (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	time       DATETIME NOT NULL,
	type       TEXT NOT NULL DEFAULT 'other',
	title      TEXT NOT NULL,
	location   TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	completed  INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	timestamp  INTEGER NOT NULL,
	date       TEXT NOT NULL,
	year_month TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS journal_entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	time        DATETIME NOT NULL,
	category    TEXT NOT NULL DEFAULT 'note',
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	timestamp   INTEGER NOT NULL,
	date        TEXT NOT NULL,
	year_month  TEXT NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feedings_timestamp ON feedings(timestamp);
CREATE INDEX IF NOT EXISTS idx_feedings_date ON feedings(date);
CREATE INDEX IF NOT EXISTS idx_feedings_year_month ON feedings(year_month);
CREATE INDEX IF NOT EXISTS idx_feedings_type ON feedings(type);

CREATE INDEX IF NOT EXISTS idx_diapers_timestamp ON diapers(timestamp);
CREATE INDEX IF NOT EXISTS idx_diapers_date ON diapers(date);
CREATE INDEX IF NOT EXISTS idx_diapers_year_month ON diapers(year_month);
CREATE INDEX IF NOT EXISTS idx_diapers_has_pee ON diapers(has_pee);
CREATE INDEX IF NOT EXISTS idx_diapers_has_poop ON diapers(has_poop);

CREATE INDEX IF NOT EXISTS idx_measurements_timestamp ON measurements(timestamp);
CREATE INDEX IF NOT EXISTS idx_measurements_date ON measurements(date);
CREATE INDEX IF NOT EXISTS idx_measurements_year_month ON measurements(year_month);

CREATE INDEX IF NOT EXISTS idx_medicines_timestamp ON medicines(timestamp);
CREATE INDEX IF NOT EXISTS idx_medicines_date ON medicines(date);
CREATE INDEX IF NOT EXISTS idx_medicines_year_month ON medicines(year_month);
CREATE INDEX IF NOT EXISTS idx_medicines_active ON medicines(active);

CREATE INDEX IF NOT EXISTS idx_temperatures_timestamp ON temperatures(timestamp);
CREATE INDEX IF NOT EXISTS idx_temperatures_date ON temperatures(date);
CREATE INDEX IF NOT EXISTS idx_temperatures_year_month ON temperatures(year_month);

CREATE INDEX IF NOT EXISTS idx_appointments_timestamp ON appointments(timestamp);
CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date);
CREATE INDEX IF NOT EXISTS idx_appointments_year_month ON appointments(year_month);
CREATE INDEX IF NOT EXISTS idx_appointments_completed ON appointments(completed);

CREATE INDEX IF NOT EXISTS idx_journal_entries_timestamp ON journal_entries(timestamp);
CREATE INDEX IF NOT EXISTS idx_journal_entries_date ON journal_entries(date);
CREATE INDEX IF NOT EXISTS idx_journal_entries_year_month ON journal_entries(year_month);
CREATE INDEX IF NOT EXISTS idx_journal_entries_category ON journal_entries(category);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_feedings_type_timestamp
	ON feedings(type, timestamp);

CREATE INDEX IF NOT EXISTS idx_medicines_active_next_dose
	ON medicines(active, next_dose);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

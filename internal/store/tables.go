package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/retention/schema"
)

// Table names for batch storage.
const (
	batchesTable       = "retention_batches"
	employeesTable     = "retention_employees"
	interventionsTable = "retention_interventions"
)

// allTables lists the tables in creation order.
var allTables = []string{batchesTable, employeesTable, interventionsTable}

// quoteTableName quotes a table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func rebind(backend schema.DatabaseBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// nowUTC is the clock used for status updates.
var nowUTC = func() time.Time { return time.Now().UTC() }

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// formatDate stores calendar dates as YYYY-MM-DD text on every backend.
func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}

// dbTimeLayouts are the text forms a driver may hand back for a time column.
var dbTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// dbTime scans time columns from any backend, whether the driver returns
// native times, text or raw bytes.
type dbTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported time value of type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time, t.Valid = time.Time{}, false
		return nil
	}
	for _, layout := range dbTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unrecognized time value %q", s)
}

// Ptr returns nil for NULL columns.
func (t dbTime) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// createTableQueries returns the CREATE TABLE statements for the backend.
func createTableQueries(backend schema.DatabaseBackend) []string {
	batches := quoteTableName(batchesTable, backend)
	employees := quoteTableName(employeesTable, backend)
	interventions := quoteTableName(interventionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return []string{
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				batch_seq BIGINT AUTO_INCREMENT PRIMARY KEY,
				batch_id VARCHAR(36) NOT NULL UNIQUE,
				created_at DATETIME(6) NOT NULL,
				as_of DATETIME(6) NOT NULL,
				source VARCHAR(512) NOT NULL,
				total INT NOT NULL,
				critical INT NOT NULL,
				high INT NOT NULL,
				medium INT NOT NULL,
				low INT NOT NULL,
				avg_risk_score DOUBLE NOT NULL
			)`, batches),
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				employee_id VARCHAR(191) COLLATE utf8mb4_bin NOT NULL PRIMARY KEY,
				batch_id VARCHAR(36) NOT NULL,
				row_index INT NOT NULL,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL,
				department VARCHAR(255) NOT NULL,
				job_title VARCHAR(255) NOT NULL,
				hire_date VARCHAR(10),
				manager_id VARCHAR(191) NOT NULL,
				location VARCHAR(255) NOT NULL,
				salary DOUBLE,
				performance_score DOUBLE NOT NULL,
				engagement_score DOUBLE NOT NULL,
				last_promotion_date VARCHAR(10),
				risk_score DOUBLE NOT NULL,
				risk_level VARCHAR(16) NOT NULL,
				departure_window VARCHAR(16) NOT NULL,
				risk_factors TEXT NOT NULL,
				breakdown TEXT NOT NULL
			)`, employees),
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				employee_id VARCHAR(191) COLLATE utf8mb4_bin NOT NULL,
				seq INT NOT NULL,
				batch_id VARCHAR(36) NOT NULL,
				action VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				priority VARCHAR(16) NOT NULL,
				timeline VARCHAR(64) NOT NULL,
				owner VARCHAR(64) NOT NULL,
				intervention_type VARCHAR(32) NOT NULL,
				status VARCHAR(16) NOT NULL,
				updated_at DATETIME(6) NOT NULL,
				PRIMARY KEY (employee_id, seq)
			)`, interventions),
		}

	case schema.PostgreSQLBackend:
		return []string{
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				batch_seq BIGSERIAL PRIMARY KEY,
				batch_id TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL,
				as_of TIMESTAMPTZ NOT NULL,
				source TEXT NOT NULL,
				total INT NOT NULL,
				critical INT NOT NULL,
				high INT NOT NULL,
				medium INT NOT NULL,
				low INT NOT NULL,
				avg_risk_score DOUBLE PRECISION NOT NULL
			)`, batches),
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				employee_id TEXT NOT NULL PRIMARY KEY,
				batch_id TEXT NOT NULL,
				row_index INT NOT NULL,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				department TEXT NOT NULL,
				job_title TEXT NOT NULL,
				hire_date TEXT,
				manager_id TEXT NOT NULL,
				location TEXT NOT NULL,
				salary DOUBLE PRECISION,
				performance_score DOUBLE PRECISION NOT NULL,
				engagement_score DOUBLE PRECISION NOT NULL,
				last_promotion_date TEXT,
				risk_score DOUBLE PRECISION NOT NULL,
				risk_level TEXT NOT NULL,
				departure_window TEXT NOT NULL,
				risk_factors TEXT NOT NULL,
				breakdown TEXT NOT NULL
			)`, employees),
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				employee_id TEXT NOT NULL,
				seq INT NOT NULL,
				batch_id TEXT NOT NULL,
				action TEXT NOT NULL,
				description TEXT NOT NULL,
				priority TEXT NOT NULL,
				timeline TEXT NOT NULL,
				owner TEXT NOT NULL,
				intervention_type TEXT NOT NULL,
				status TEXT NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (employee_id, seq)
			)`, interventions),
		}

	default: // SQLite
		return []string{
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				batch_seq INTEGER PRIMARY KEY AUTOINCREMENT,
				batch_id TEXT NOT NULL UNIQUE,
				created_at TEXT NOT NULL,
				as_of TEXT NOT NULL,
				source TEXT NOT NULL,
				total INTEGER NOT NULL,
				critical INTEGER NOT NULL,
				high INTEGER NOT NULL,
				medium INTEGER NOT NULL,
				low INTEGER NOT NULL,
				avg_risk_score REAL NOT NULL
			)`, batches),
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				employee_id TEXT NOT NULL PRIMARY KEY,
				batch_id TEXT NOT NULL,
				row_index INTEGER NOT NULL,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				department TEXT NOT NULL,
				job_title TEXT NOT NULL,
				hire_date TEXT,
				manager_id TEXT NOT NULL,
				location TEXT NOT NULL,
				salary REAL,
				performance_score REAL NOT NULL,
				engagement_score REAL NOT NULL,
				last_promotion_date TEXT,
				risk_score REAL NOT NULL,
				risk_level TEXT NOT NULL,
				departure_window TEXT NOT NULL,
				risk_factors TEXT NOT NULL,
				breakdown TEXT NOT NULL
			)`, employees),
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				employee_id TEXT NOT NULL,
				seq INTEGER NOT NULL,
				batch_id TEXT NOT NULL,
				action TEXT NOT NULL,
				description TEXT NOT NULL,
				priority TEXT NOT NULL,
				timeline TEXT NOT NULL,
				owner TEXT NOT NULL,
				intervention_type TEXT NOT NULL,
				status TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (employee_id, seq)
			)`, interventions),
		}
	}
}

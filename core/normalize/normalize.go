// Package normalize maps raw roster rows onto canonical employee records.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/retention/schema"
)

// fieldKind tells the resolver how to coerce a raw value.
type fieldKind int

const (
	textField fieldKind = iota
	scoreField
	numberField
	dateField
)

// fieldSpec is one (canonical field, candidate keys, default) entry.
// A nil def means the field is optional and stays unset when absent.
type fieldSpec struct {
	field  string
	keys   []string
	kind   fieldKind
	def    func(index int) any
	assign func(rec *schema.EmployeeRecord, v any)
}

// fieldTable drives the resolver. Candidate keys are tried in order.
var fieldTable = []fieldSpec{
	{
		field:  schema.FieldEmployeeID,
		keys:   []string{"employee_id", "id", "emp_id", "employee_number"},
		kind:   textField,
		def:    func(i int) any { return fmt.Sprintf("EMP%04d", i+1) },
		assign: func(r *schema.EmployeeRecord, v any) { r.EmployeeID = v.(string) },
	},
	{
		field:  schema.FieldName,
		keys:   []string{"name", "employee_name", "full_name"},
		kind:   textField,
		def:    func(i int) any { return fmt.Sprintf("Employee %d", i+1) },
		assign: func(r *schema.EmployeeRecord, v any) { r.Name = v.(string) },
	},
	{
		field:  schema.FieldEmail,
		keys:   []string{"email", "email_address", "work_email"},
		kind:   textField,
		def:    func(i int) any { return fmt.Sprintf("employee%d@company.com", i+1) },
		assign: func(r *schema.EmployeeRecord, v any) { r.Email = v.(string) },
	},
	{
		field:  schema.FieldDepartment,
		keys:   []string{"department", "dept", "team"},
		kind:   textField,
		def:    func(int) any { return schema.DefaultDepartment },
		assign: func(r *schema.EmployeeRecord, v any) { r.Department = v.(string) },
	},
	{
		field:  schema.FieldPosition,
		keys:   []string{"position", "title", "job_title", "role"},
		kind:   textField,
		def:    func(int) any { return "" },
		assign: func(r *schema.EmployeeRecord, v any) { r.Position = v.(string) },
	},
	{
		field:  schema.FieldHireDate,
		keys:   []string{"hire_date", "start_date", "date_hired"},
		kind:   dateField,
		assign: func(r *schema.EmployeeRecord, v any) { r.HireDate = v.(*time.Time) },
	},
	{
		field:  schema.FieldManagerID,
		keys:   []string{"manager_id", "manager"},
		kind:   textField,
		def:    func(int) any { return "" },
		assign: func(r *schema.EmployeeRecord, v any) { r.ManagerID = v.(string) },
	},
	{
		field:  schema.FieldLocation,
		keys:   []string{"location", "office", "work_location"},
		kind:   textField,
		def:    func(int) any { return schema.DefaultLocation },
		assign: func(r *schema.EmployeeRecord, v any) { r.Location = v.(string) },
	},
	{
		field:  schema.FieldSalary,
		keys:   []string{"salary", "annual_salary", "compensation"},
		kind:   numberField,
		assign: func(r *schema.EmployeeRecord, v any) { r.Salary = v.(*float64) },
	},
	{
		field:  schema.FieldPerformanceScore,
		keys:   []string{"performance_score", "performance", "performance_rating"},
		kind:   scoreField,
		def:    func(int) any { return schema.DefaultScore },
		assign: func(r *schema.EmployeeRecord, v any) { r.PerformanceScore = v.(float64) },
	},
	{
		field:  schema.FieldEngagementScore,
		keys:   []string{"engagement_score", "engagement"},
		kind:   scoreField,
		def:    func(int) any { return schema.DefaultScore },
		assign: func(r *schema.EmployeeRecord, v any) { r.EngagementScore = v.(float64) },
	},
	{
		field:  schema.FieldLastPromotionDate,
		keys:   []string{"last_promotion_date", "last_promotion", "promotion_date"},
		kind:   dateField,
		assign: func(r *schema.EmployeeRecord, v any) { r.LastPromotionDate = v.(*time.Time) },
	},
}

// Normalize converts every raw row into exactly one employee record.
// Duplicate ids get a numeric suffix so ids stay unique within the batch.
func Normalize(rows []schema.RawRow) []schema.EmployeeRecord {
	records := make([]schema.EmployeeRecord, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		rec := NormalizeRow(i, row)
		rec.EmployeeID = uniqueID(rec.EmployeeID, seen)
		records = append(records, rec)
	}
	return records
}

// NormalizeRow converts one raw row. Index is the zero-based row position
// and seeds the placeholders for missing identity fields.
func NormalizeRow(index int, row schema.RawRow) schema.EmployeeRecord {
	row = NormalizeKeys(row)
	var rec schema.EmployeeRecord
	for _, spec := range fieldTable {
		spec.assign(&rec, resolve(index, row, spec))
	}
	return rec
}

// NormalizeKeys lower-cases and trims column names, turning spaces and dashes into underscores.
func NormalizeKeys(row schema.RawRow) schema.RawRow {
	out := make(schema.RawRow, len(row))
	for k, v := range row {
		key := NormalizeKey(k)
		if key == "" {
			continue
		}
		// First occurrence wins when two headers collapse to the same key
		if _, exists := out[key]; !exists {
			out[key] = v
		}
	}
	return out
}

// NormalizeKey normalizes a single column name.
func NormalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(k, "\ufeff")))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
	for strings.Contains(k, "__") {
		k = strings.ReplaceAll(k, "__", "_")
	}
	return k
}

// resolve finds the first usable candidate value and coerces it, falling back to the default.
func resolve(index int, row schema.RawRow, spec fieldSpec) any {
	for _, key := range spec.keys {
		raw, ok := row[key]
		if !ok || isBlank(raw) {
			continue
		}
		if v, ok := coerce(raw, spec.kind); ok {
			return v
		}
		// Present but unusable: stop probing so a malformed primary column is not
		// silently replaced by a secondary one.
		break
	}
	return fallback(index, spec)
}

func fallback(index int, spec fieldSpec) any {
	if spec.def != nil {
		return spec.def(index)
	}
	switch spec.kind {
	case dateField:
		return (*time.Time)(nil)
	case numberField:
		return (*float64)(nil)
	default:
		return ""
	}
}

func coerce(raw any, kind fieldKind) (any, bool) {
	switch kind {
	case scoreField:
		v, ok := ParseNumber(raw)
		if !ok {
			return nil, false
		}
		return Clamp01(v), true
	case numberField:
		v, ok := ParseNumber(raw)
		if !ok {
			return nil, false
		}
		return &v, true
	case dateField:
		t, ok := ParseDate(raw)
		if !ok {
			return nil, false
		}
		return &t, true
	default:
		s := toText(raw)
		if s == "" {
			return nil, false
		}
		return s, true
	}
}

func isBlank(raw any) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		trimmed := strings.TrimSpace(s)
		return trimmed == "" || strings.EqualFold(trimmed, "nan") || strings.EqualFold(trimmed, "null") || strings.EqualFold(trimmed, "n/a")
	}
	return false
}

func toText(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ParseNumber parses a raw cell permissively. Currency symbols and thousands
// separators are ignored and a trailing percent sign divides by 100.
// NaN and infinities are rejected.
func ParseNumber(raw any) (float64, bool) {
	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case string:
		s := strings.TrimSpace(t)
		percent := strings.HasSuffix(s, "%")
		s = strings.TrimSuffix(s, "%")
		s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		if percent {
			parsed /= 100
		}
		v = parsed
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Clamp01 bounds a value to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// dateLayouts are tried in order for textual dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
}

// excelEpoch is day zero of spreadsheet serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate accepts ISO-like strings and spreadsheet serial numbers.
// Unparseable input reports false so the date is treated as unknown.
func ParseDate(raw any) (time.Time, bool) {
	switch t := raw.(type) {
	case time.Time:
		return t.UTC(), !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	default:
		serial, ok := ParseNumber(raw)
		// Serials below 1 or past year 9999 are not dates
		if !ok || serial < 1 || serial > 2958465 {
			return time.Time{}, false
		}
		return excelEpoch.AddDate(0, 0, int(serial)), true
	}
}

// uniqueID returns id, or id with the next free numeric suffix when already used.
func uniqueID(id string, seen map[string]int) string {
	if _, dup := seen[id]; !dup {
		seen[id] = 1
		return id
	}
	for n := seen[id] + 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, taken := seen[candidate]; !taken {
			seen[id] = n
			seen[candidate] = 1
			return candidate
		}
	}
}

// Package metadata parses the bench run metadata record from a
// dash-delimited results folder name (ID-DESCRIPTOR-DATE-TIME).
package metadata

import (
	"fmt"
	"strings"
	"time"
)

// Unknown is the sentinel value for any field that cannot be parsed.
const Unknown = "Unknown"

const (
	dateLayout = "060102"
	timeLayout = "150405"
)

// Record is the flat metadata record parsed once per run.
type Record struct {
	PartID     string
	Descriptor string
	Date       string // raw YYMMDD segment
	Time       string // raw HHMMSS segment
}

// UnknownRecord returns a record with every field set to the sentinel.
func UnknownRecord() Record {
	return Record{
		PartID:     Unknown,
		Descriptor: Unknown,
		Date:       Unknown,
		Time:       Unknown,
	}
}

// Parse extracts a Record from a folder name of the form
// ID-DESCRIPTOR-DATE-TIME. Underscores in the ID segment are rendered
// as colons. Fewer than 4 hyphen-delimited segments degrades to the
// all-unknown record; Parse never fails.
func Parse(folderName string) Record {
	parts := strings.Split(folderName, "-")
	if len(parts) < 4 {
		return UnknownRecord()
	}
	return Record{
		PartID:     strings.ReplaceAll(parts[0], "_", ":"),
		Descriptor: parts[1],
		Date:       parts[2],
		Time:       parts[3],
	}
}

// HumanDate renders the date segment as "09 FEB 2026".
// A segment that does not parse as YYMMDD degrades to Unknown;
// the raw segment in Date is untouched.
func (r Record) HumanDate() string {
	t, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return Unknown
	}
	return strings.ToUpper(t.Format("02 Jan 2006"))
}

// HumanTime renders the time segment as "21:50:48".
func (r Record) HumanTime() string {
	t, err := time.Parse(timeLayout, r.Time)
	if err != nil {
		return Unknown
	}
	return t.Format("15:04:05")
}

// LocalTime renders the time segment shifted by offsetHours, wrapping
// modulo 24h. The bench records UTC; reports also show site-local time.
func (r Record) LocalTime(offsetHours int) string {
	t, err := time.Parse(timeLayout, r.Time)
	if err != nil {
		return Unknown
	}
	return t.Add(time.Duration(offsetHours) * time.Hour).Format("15:04:05")
}

// Summary returns the one-line metadata string used on report title pages.
func (r Record) Summary() string {
	return fmt.Sprintf("Part ID: %s | Descriptor: %s | Date: %s | Time: %s",
		r.PartID, r.Descriptor, r.Date, r.Time)
}

// IsUnknown reports whether every field is the sentinel.
func (r Record) IsUnknown() bool {
	return r.PartID == Unknown && r.Descriptor == Unknown &&
		r.Date == Unknown && r.Time == Unknown
}

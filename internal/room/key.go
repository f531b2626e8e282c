// Package room derives canonical room identifiers for the realtime seat
// channel.  A room groups every connection looking at the same showable
// item at the same showtime, date and location, so the identifier must be
// fully deterministic: two join requests carrying the same tuple always
// land in the same bucket.
package room

import "time"

// instantLayout serializes combined showtimes as a UTC instant with
// millisecond precision, matching the format the booking frontend already
// uses for showtimes.
const instantLayout = "2006-01-02T15:04:05.000Z07:00"

// invalidInstant is the sentinel segment used when the date or showtime
// cannot be parsed.  Derivation is best-effort bucketing, not validation:
// a malformed payload must still map to one stable (if semantically wrong)
// room rather than fail the join.
const invalidInstant = "invalid-date"

// dateLayouts are tried in order when parsing the calendar-day input.  A
// full datetime is accepted too; only its calendar day is used.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
}

// timeLayouts are tried in order when parsing the showtime input.  Offsets
// are honoured and normalised to UTC before the hour and minute are read.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// DeriveKey maps an (item, showtime, date, location) tuple to the canonical
// room identifier "{itemID}_{instant}_{location}".  When a date is supplied
// the instant is the date's calendar day overlaid with the showtime's hour
// and minute, seconds and milliseconds zeroed.  When date is empty the
// showtime string is used verbatim.  DeriveKey never fails; see
// invalidInstant for the malformed-input behaviour.
func DeriveKey(itemID, showtime, date, location string) string {
	instant := showtime
	if date != "" {
		instant = combineInstant(date, showtime)
	}
	return itemID + "_" + instant + "_" + location
}

// combineInstant builds the overlaid timestamp from a calendar day and a
// showtime.  Both inputs must parse for the overlay to happen; otherwise
// the stable sentinel is returned.
func combineInstant(date, showtime string) string {
	d, ok := parseAny(date, dateLayouts)
	if !ok {
		return invalidInstant
	}
	st, ok := parseAny(showtime, timeLayouts)
	if !ok {
		return invalidInstant
	}
	combined := time.Date(d.Year(), d.Month(), d.Day(), st.Hour(), st.Minute(), 0, 0, time.UTC)
	return combined.Format(instantLayout)
}

// parseAny tries each layout in order and normalises the result to UTC so
// that offset-bearing inputs bucket consistently.
func parseAny(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

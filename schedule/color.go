package schedule

import "strings"

// DefaultColor is the workplace color used when none is chosen.
const DefaultColor = "#4285f4"

const defaultCalendarColorID = "9"

// calendarColorIDs maps the palette offered for workplaces to calendar
// event color ids.
var calendarColorIDs = map[string]string{
	"#4285f4": "9",  // blue
	"#ea4335": "11", // red
	"#fbbc04": "5",  // yellow
	"#34a853": "10", // green
	"#ff6d00": "4",  // orange
	"#46bdc6": "7",  // teal
	"#7c4dff": "3",  // purple
	"#f50057": "11", // pink
}

// CalendarColorID returns the calendar color id for a workplace color.
func CalendarColorID(hex string) string {
	if id, ok := calendarColorIDs[strings.ToLower(strings.TrimSpace(hex))]; ok {
		return id
	}
	return defaultCalendarColorID
}

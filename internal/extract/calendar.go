package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// CalendarDay is one entry of the 30-day content calendar.
type CalendarDay struct {
	Day     int    `json:"day"`
	Type    string `json:"type"`
	Topic   string `json:"topic"`
	Purpose string `json:"purpose"`
}

const calendarDays = 30

// calendarTemplates cycle to fill days the model did not produce.
var calendarTemplates = []CalendarDay{
	{Type: "Reel", Topic: "Quick tip from your niche", Purpose: "Reach"},
	{Type: "Story", Topic: "Behind the scenes of your week", Purpose: "Connection"},
	{Type: "Post", Topic: "Answer a frequent audience question", Purpose: "Authority"},
	{Type: "Reel", Topic: "Trend remix with your own angle", Purpose: "Discovery"},
	{Type: "Post", Topic: "Share a win or lesson learned", Purpose: "Trust"},
}

var dayHeader = regexp.MustCompile(`(?im)^\s*(?:\*\*|#{0,4}\s*)?day\s*(\d+)`)

// Calendar extracts a 30-day plan from generated text. The result always
// has exactly 30 entries with Day running 1..30 in order: parsed entries
// are renumbered sequentially, extras are truncated and missing days are
// filled from rotating templates.
func Calendar(text string) []CalendarDay {
	var parsed []CalendarDay
	locs := dayHeader.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := text[loc[0]:end]
		entry := CalendarDay{
			Type:    labeledField(block, "Type"),
			Topic:   labeledField(block, "Topic"),
			Purpose: labeledField(block, "Purpose"),
		}
		if entry.Topic == "" {
			// Headerless blocks often carry the topic inline: "Day 4: ...".
			if rest := strings.SplitN(firstLine(block), ":", 2); len(rest) == 2 {
				entry.Topic = cleanLine(rest[1])
			}
		}
		if entry.Type == "" && entry.Topic == "" && entry.Purpose == "" {
			continue
		}
		parsed = append(parsed, entry)
	}

	out := make([]CalendarDay, 0, calendarDays)
	for day := 1; day <= calendarDays; day++ {
		var entry CalendarDay
		if day-1 < len(parsed) {
			entry = parsed[day-1]
		} else {
			entry = calendarTemplates[(day-1)%len(calendarTemplates)]
			entry.Topic = fmt.Sprintf("%s (day %d)", entry.Topic, day)
		}
		if entry.Type == "" {
			entry.Type = calendarTemplates[(day-1)%len(calendarTemplates)].Type
		}
		if entry.Topic == "" {
			entry.Topic = calendarTemplates[(day-1)%len(calendarTemplates)].Topic
		}
		if entry.Purpose == "" {
			entry.Purpose = calendarTemplates[(day-1)%len(calendarTemplates)].Purpose
		}
		entry.Day = day
		out = append(out, entry)
	}
	return out
}

package dashboard

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Icon names a glyph and the color class it is drawn with.
type Icon struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

const (
	neutralBadge  = "text-muted-foreground bg-muted"
	neutralStatus = "text-muted-foreground bg-muted border-muted-foreground/20"
	unknownLabel  = "Unknown"
)

var (
	priorityStyles = map[Priority]string{
		PriorityHigh:   "text-red-500 bg-red-500/10",
		PriorityMedium: "text-amber-500 bg-amber-500/10",
		PriorityLow:    "text-emerald-500 bg-emerald-500/10",
	}

	statusStyles = map[Status]string{
		StatusCompleted:  "text-emerald-500 bg-emerald-500/10 border-emerald-500/20",
		StatusInProgress: "text-blue-500 bg-blue-500/10 border-blue-500/20",
		StatusNotStarted: neutralStatus,
	}

	reminderIcons = map[ReminderType]Icon{
		ReminderMeeting:  {Name: "calendar", Class: "text-primary"},
		ReminderCall:     {Name: "phone", Class: "text-emerald-500"},
		ReminderTask:     {Name: "file-text", Class: "text-amber-500"},
		ReminderDeadline: {Name: "clock", Class: "text-red-500"},
	}

	fallbackIcon = Icon{Name: "bell", Class: "text-muted-foreground"}
)

// PriorityStyle returns the badge color class for p.
func PriorityStyle(p Priority) string {
	if style, ok := priorityStyles[p]; ok {
		return style
	}
	return neutralBadge
}

// PriorityLabel returns the badge text for p, e.g. "High Priority".
func PriorityLabel(p Priority) string {
	word := capitalize(strings.TrimSpace(string(p)))
	if word == "" {
		word = unknownLabel
	}
	return word + " Priority"
}

// StatusStyle returns the badge color class for s.
func StatusStyle(s Status) string {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return neutralStatus
}

// StatusLabel humanizes a kebab-case status: "in-progress" becomes
// "In Progress".
func StatusLabel(s Status) string {
	return Humanize(string(s))
}

// ReminderIcon returns the icon drawn next to a reminder of type t.
func ReminderIcon(t ReminderType) Icon {
	if icon, ok := reminderIcons[t]; ok {
		return icon
	}
	return fallbackIcon
}

// Humanize converts a kebab-case identifier into Title Case words.
func Humanize(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	if len(parts) == 0 {
		return unknownLabel
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

// Initials returns the first letter of each word of name, e.g. "SJ".
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

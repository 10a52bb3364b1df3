package dashboard

import "strings"

// MatchTask reports whether query occurs in the task's title or
// description, ignoring case. An empty query matches everything.
func MatchTask(t Task, query string) bool {
	return matches(query, t.Title, t.Description)
}

func MatchReminder(r Reminder, query string) bool {
	return matches(query, r.Title)
}

func MatchEmail(e Email, query string) bool {
	return matches(query, e.Sender, e.Subject, e.Preview)
}

func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

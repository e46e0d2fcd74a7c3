package domain

import "time"

// User represents a registered Dermalyze account.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	JoinDate string `json:"joinDate,omitempty"`
}

// serverTimeLayouts are the timestamp formats the service is known to emit.
var serverTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseServerTime parses a timestamp string as sent by the service.
func ParseServerTime(s string) (time.Time, bool) {
	for _, layout := range serverTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// JoinedAt returns the parsed join date, if present and parseable.
func (u User) JoinedAt() (time.Time, bool) {
	if u.JoinDate == "" {
		return time.Time{}, false
	}
	return ParseServerTime(u.JoinDate)
}

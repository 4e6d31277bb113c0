package dashboard

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of the date inputs.
const DateLayout = "2006-01-02"

// Request is the validated user input of one dashboard invocation.
type Request struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

// ParseRequest trims and upper-cases the symbol and parses both dates, defaulting the range to
// the lookbackYears before today. Dates are calendar days at midnight UTC.
func ParseRequest(symbol, start, end string, now time.Time, lookbackYears int) (Request, error) {
	if lookbackYears <= 0 {
		lookbackYears = 1
	}
	today := calendarDay(now)
	req := Request{
		Symbol: strings.ToUpper(strings.TrimSpace(symbol)),
		Start:  today.AddDate(-lookbackYears, 0, 0),
		End:    today,
	}

	if s := strings.TrimSpace(start); s != "" {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return req, fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", s)
		}
		req.Start = t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return req, fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", s)
		}
		req.End = t
	}
	return req, nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/poikilos/anewcommit/internal/errors"
)

// DateLayout is the normalized form of a captured date.
const DateLayout = "2006-01-02"

// DateExamples provides example captured date formats.
var DateExamples = []string{
	"2021-04-01",
	"April 1 2021",
	"1 April 2021",
	"yesterday",
	"3 weeks ago",
}

// ParseCapturedDate normalizes a user-entered captured date to DateLayout.
// ISO dates are taken as-is; anything else goes through go-dateparser
// relative to now. An empty input clears the date.
func ParseCapturedDate(input string) (string, error) {
	return parseCapturedDateAt(input, time.Now())
}

func parseCapturedDateAt(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}

	if t, err := time.Parse(DateLayout, input); err == nil {
		return t.Format(DateLayout), nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return "", errors.NewUserErrorWithField("date", input,
			"could not parse captured date",
			"Try formats like "+strings.Join(DateExamples[:3], ", ")+".")
	}

	return result.Time.Format(DateLayout), nil
}

// FormatCapturedDate renders t as a captured date.
func FormatCapturedDate(t time.Time) string {
	return t.Format(DateLayout)
}

package sources

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var isoDurationRE = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration converts an ISO-8601 "PT#H#M#S" duration into
// "totalMinutes:SS". Hours fold into minutes, so "PT1H2M3S" is "62:03".
// Input that does not start with "PT" yields "0:00".
func ParseISODuration(d string) string {
	m := isoDurationRE.FindStringSubmatch(d)
	if m == nil {
		return "0:00"
	}
	hours, minutes, seconds := atoiOrZero(m[1]), atoiOrZero(m[2]), atoiOrZero(m[3])
	return fmt.Sprintf("%d:%02d", hours*60+minutes, seconds)
}

// FormatSeconds renders n as "M:SS", or "H:MM:SS" from one hour up.
func FormatSeconds(n int) string {
	if n < 0 {
		n = 0
	}
	h, m, s := n/3600, (n%3600)/60, n%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// DurationToSeconds parses "H:MM:SS", "M:SS" or "S". Malformed input yields 0.
func DurationToSeconds(d string) int {
	d = strings.TrimSpace(d)
	if d == "" {
		return 0
	}
	total := 0
	for _, part := range strings.Split(d, ":") {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return 0
		}
		total = total*60 + v
	}
	return total
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

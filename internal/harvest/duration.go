package harvest

import (
	"fmt"
	"regexp"
	"strconv"
)

// YouTube expresses video length as an ISO-8601 duration code such as
// PT4M13S or P1DT2H. Weeks and months never occur in practice.
var durationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration converts an ISO-8601 duration code into whole seconds.
func ParseDuration(code string) (int64, error) {
	m := durationRe.FindStringSubmatch(code)
	if m == nil {
		return 0, fmt.Errorf("malformed duration code %q", code)
	}

	days := m[1]
	hours := m[2]
	minutes := m[3]
	seconds := m[4]
	if days == "" && hours == "" && minutes == "" && seconds == "" {
		return 0, fmt.Errorf("malformed duration code %q", code)
	}

	var total int64
	for _, part := range []struct {
		value string
		unit  int64
	}{
		{days, 86400},
		{hours, 3600},
		{minutes, 60},
		{seconds, 1},
	} {
		if part.value == "" {
			continue
		}
		n, err := strconv.ParseInt(part.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed duration code %q: %w", code, err)
		}
		total += n * part.unit
	}

	return total, nil
}

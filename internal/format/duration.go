package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration renders the time spent on a level. Coarse levels
// finish in nanoseconds and the finest in milliseconds, so the unit follows
// the magnitude and keeps about three significant digits:
// 850ns, 12.4µs, 3.2ms, 1.25s. A minute or more is rounded to the second.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

package sizes

import (
	"fmt"
	"math"
)

// Placeholder marks where the formatted size lands in a display template.
const Placeholder = "{}"

// Format renders a byte count the way the popup displays sizes:
// integer bytes and kilobytes, one decimal above that.
func Format(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d b", n)
	}
	kb := float64(n) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%d K", int64(math.Round(kb)))
	}
	mb := kb / 1024
	if mb < 1024 {
		return fmt.Sprintf("%.1f Mb", mb)
	}
	return fmt.Sprintf("%.1f Gb", mb/1024)
}

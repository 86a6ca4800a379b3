package format

import "fmt"

// FormatDays formats a whole-day count compactly: "today", "3d", "2w", "3mo".
func FormatDays(days int) string {
	switch {
	case days <= 0:
		return "today"
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case days < 30:
		return fmt.Sprintf("%dw", days/7)
	default:
		return fmt.Sprintf("%dmo", days/30)
	}
}

package gather

import (
	"fmt"
	"math"
	"strconv"
)

const ellipsis = "..."

// TruncateURL fits url into width characters for progress lines. Long URLs
// keep their tail, where the article slug is.
func TruncateURL(url string, width int) string {
	switch {
	case width <= 0:
		return ""
	case len(url) <= width:
		return url
	case width <= len(ellipsis):
		return url[:width]
	}
	return ellipsis + url[len(url)-width+len(ellipsis):]
}

// FormatBytes renders a byte count in B, KB or MB.
func FormatBytes(n int) string {
	if n < 1024 {
		return strconv.Itoa(n) + " B"
	}
	size, unit := float64(n)/1024, "KB"
	if size >= 1024 {
		size, unit = size/1024, "MB"
	}
	return fmt.Sprintf("%.1f %s", size, unit)
}

// FormatTokens renders an approximate token count, in thousands from 1000 up.
func FormatTokens(n int) string {
	if n < 1000 {
		return "~" + strconv.Itoa(n) + " tokens"
	}
	return fmt.Sprintf("~%.0fk tokens", math.Round(float64(n)/1000))
}

package predict

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatPrice formats an amount with thousands separators and at most two
// decimal places. Negative amounts read "-$1,234.5".
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	rounded := math.Round(v*100) / 100
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	if rounded < 0 {
		return "-$" + humanize.Commaf(-rounded)
	}
	return "$" + humanize.Commaf(rounded)
}

// FormatNumber renders a form number for an input control. NaN renders empty.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

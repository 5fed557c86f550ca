package columns

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// Unit scales applied before formatting.
const (
	UnitNone      = "none"
	UnitThousands = "thousands"
	UnitMillions  = "millions"
)

// UnitScale maps a unit keyword to its multiplier. Unknown units scale by 1.
func UnitScale(unit string) float64 {
	switch unit {
	case UnitThousands:
		return 1e-3
	case UnitMillions:
		return 1e-6
	default:
		return 1
	}
}

// NumberFormatter renders numeric cells for one column. It is safe for
// concurrent use.
type NumberFormatter struct {
	Decimals int
	Unit     string
	Locale   language.Tag
	Compact  bool

	printer *message.Printer
	scale   float64
}

// NewNumberFormatter returns a formatter; negative decimals are treated as 0
// and an undetermined locale as English.
func NewNumberFormatter(decimals int, unit string, locale language.Tag, compact bool) *NumberFormatter {
	if decimals < 0 {
		decimals = 0
	}
	if locale == language.Und {
		locale = language.English
	}
	return &NumberFormatter{
		Decimals: decimals,
		Unit:     unit,
		Locale:   locale,
		Compact:  compact,
		printer:  message.NewPrinter(locale),
		scale:    UnitScale(unit),
	}
}

var compactSuffixes = []struct {
	limit  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// Format returns the localized text of v, or "" for nil and non-numeric values.
// It never panics.
func (f *NumberFormatter) Format(v any) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	n, ok := model.ToFloat(v)
	if !ok {
		return ""
	}
	p, scale := f.printer, f.scale
	if p == nil {
		p, scale = message.NewPrinter(f.Locale), UnitScale(f.Unit)
	}
	n *= scale

	suffix := ""
	if f.Compact {
		abs := math.Abs(n)
		for _, s := range compactSuffixes {
			if abs >= s.limit {
				n /= s.limit
				suffix = s.suffix
				break
			}
		}
	}

	text := p.Sprint(number.Decimal(n,
		number.MinFractionDigits(f.Decimals),
		number.MaxFractionDigits(f.Decimals),
	))
	return strings.TrimSpace(text) + suffix
}

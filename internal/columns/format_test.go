package columns_test

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/columns"
)

func TestUnitScale(t *testing.T) {
	assert.Equal(t, 1.0, columns.UnitScale("none"))
	assert.Equal(t, 1e-3, columns.UnitScale("thousands"))
	assert.Equal(t, 1e-6, columns.UnitScale("millions"))
	assert.Equal(t, 1.0, columns.UnitScale("bogus"))
}

func TestNumberFormatter_Format(t *testing.T) {
	t.Run("millions with one decimal", func(t *testing.T) {
		f := columns.NewNumberFormatter(1, columns.UnitMillions, language.English, false)
		assert.Equal(t, "2.5", f.Format(2_500_000))
	})

	t.Run("groups thousands for the locale", func(t *testing.T) {
		en := columns.NewNumberFormatter(0, columns.UnitNone, language.English, false)
		assert.Equal(t, "1,234,567", en.Format(1234567))

		de := columns.NewNumberFormatter(2, columns.UnitNone, language.German, false)
		assert.Equal(t, "1.234,50", de.Format(1234.5))
	})

	t.Run("pads to fixed decimals", func(t *testing.T) {
		f := columns.NewNumberFormatter(2, columns.UnitThousands, language.English, false)
		assert.Equal(t, "1.50", f.Format(1500))
	})

	t.Run("accepts numeric strings and json numbers", func(t *testing.T) {
		f := columns.NewNumberFormatter(0, columns.UnitNone, language.English, false)
		assert.Equal(t, "42", f.Format("42"))
		assert.Equal(t, "7", f.Format(json.Number("7")))
	})

	t.Run("degrades to empty string", func(t *testing.T) {
		f := columns.NewNumberFormatter(0, columns.UnitNone, language.English, false)
		assert.Equal(t, "", f.Format(nil))
		assert.Equal(t, "", f.Format("not a number"))
		assert.Equal(t, "", f.Format(map[string]any{"x": 1}))
		assert.Equal(t, "", f.Format(true))
		assert.Equal(t, "", f.Format(math.NaN()))
	})

	t.Run("compact notation", func(t *testing.T) {
		f := columns.NewNumberFormatter(1, columns.UnitNone, language.English, true)
		assert.Equal(t, "2.5M", f.Format(2_500_000))
		assert.Equal(t, "950.0", f.Format(950))
	})

	t.Run("negative decimals are clamped", func(t *testing.T) {
		f := columns.NewNumberFormatter(-3, "", language.Und, false)
		assert.Equal(t, 0, f.Decimals)
		assert.Equal(t, "3", f.Format(3))
	})

	t.Run("zero value formats with its fields", func(t *testing.T) {
		f := &columns.NumberFormatter{Decimals: 1, Unit: columns.UnitThousands, Locale: language.English}
		assert.Equal(t, "2.5", f.Format(2500))
	})

	t.Run("one formatter serves concurrent renders", func(t *testing.T) {
		f := columns.NewNumberFormatter(2, columns.UnitNone, language.German, false)

		var wg sync.WaitGroup
		results := make([]string, 32)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = f.Format(1234.5)
			}(i)
		}
		wg.Wait()

		for _, got := range results {
			assert.Equal(t, "1.234,50", got)
		}
	})
}

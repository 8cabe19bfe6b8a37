package docnum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmuConversions(t *testing.T) {
	tests := []struct {
		name  string
		emu   Emu
		twips int
	}{
		{"one inch", InchHundredths(100), 1440},
		{"tenth of an inch", InchHundredths(10), 144},
		{"0.23 inch truncates", InchHundredths(23), 331},
		{"0.13 inch truncates", InchHundredths(13), 187},
		{"one point", Points(1), 20},
		{"twelve points", Points(12), 240},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.twips, tt.emu.Twips())
		})
	}
}

func TestEmuInches(t *testing.T) {
	assert.InDelta(t, 0.23, InchHundredths(23).Inches(), 1e-9)
	assert.InDelta(t, 1.0, Emu(EmuPerInch).Inches(), 1e-9)
}

// Hundredths of an inch are exact in EMU, so no rounding drift can
// accumulate before the single conversion to twips at the XML boundary.
func TestInchHundredthsExact(t *testing.T) {
	for n := 1; n <= 100; n++ {
		assert.Equal(t, Emu(n)*9144, InchHundredths(n))
	}
}

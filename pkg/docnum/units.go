package docnum

// Length units. WordprocessingML stores indentation in twips (twentieths
// of a point) but exposes user-facing geometry in inches or points.
// Lengths are carried internally as EMU so hundredths of an inch stay
// exactly representable; the single integer conversion to twips happens
// at the XML boundary and never accumulates across arithmetic.
const (
	EmuPerInch  = 914400
	EmuPerPoint = 12700
	EmuPerTwip  = 635
)

// Emu is a length in English Metric Units.
type Emu int64

// InchHundredths returns the length for n hundredths of an inch. Every
// hundredth is an exact EMU count (914400/100 = 9144).
func InchHundredths(n int) Emu {
	return Emu(int64(n) * (EmuPerInch / 100))
}

// Points returns the length for n points.
func Points(n int) Emu {
	return Emu(int64(n) * EmuPerPoint)
}

// Twips converts the length to twips for w:ind and friends, truncating
// toward zero like the original length representation.
func (e Emu) Twips() int {
	return int(int64(e) / EmuPerTwip)
}

// Inches returns the length in inches for diagnostics.
func (e Emu) Inches() float64 {
	return float64(e) / EmuPerInch
}

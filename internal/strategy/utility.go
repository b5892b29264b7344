package strategy

import "math"

// sliderScale maps the caller-facing risk style to the exponent
// coefficient: an input of 1 shifts the exponents by 0.1.
const sliderScale = 0.1

// magnitudeCap bounds the normalized magnitude to avoid overflow in Pow
const magnitudeCap = 1e12

// Utility maps a chip delta to a risk-adjusted utility.
//
// riskStyle 0 is risk-neutral and returns delta unchanged. Otherwise the
// scaled coefficient r = riskStyle*0.1 picks a pair of exponents: for
// r > 0 gains use 1+|r| and losses 1/(1+|r|); for r < 0 the exponents
// swap. The magnitude is normalized by chipScale before the power curve
// and the original sign is restored. A delta of 0 always maps to 0.
//
// Note the r > 0 branch intentionally applies the larger exponent to
// gains; callers rely on this exact curve.
func Utility(delta, riskStyle, chipScale float64) float64 {
	if delta == 0 {
		return 0
	}

	r := riskStyle * sliderScale
	if math.Abs(r) < 1e-12 {
		return delta
	}

	k := math.Abs(r)
	var aGain, aLoss float64
	if r > 0 {
		aGain = 1.0 + k
		aLoss = 1.0 / (1.0 + k)
	} else {
		aGain = 1.0 / (1.0 + k)
		aLoss = 1.0 + k
	}

	a := aLoss
	if delta > 0 {
		a = aGain
	}

	scale := math.Max(chipScale, 1e-9)
	s := math.Abs(delta) / scale
	s = math.Min(s, magnitudeCap)

	u := scale * (math.Pow(s+1.0, a) - 1.0) / a
	return math.Copysign(u, delta)
}

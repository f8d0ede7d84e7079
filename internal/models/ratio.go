package models

// Ratio divides num by den, returning nil when the denominator is zero.
// Undefined ratios stay nil through the whole pipeline; they are never
// coerced to zero and downstream means skip them.
func Ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// OneMinus returns 1-v for a defined value, nil otherwise
func OneMinus(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(1 - *v)
}

// Inverse returns 1/v for a defined non-zero value, nil otherwise
func Inverse(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return Float(1 / *v)
}

package calculatorx

import (
	"math"
	"strconv"
	"strings"
)

const (
	// MaxInputLength caps the number of characters of an edited value.
	MaxInputLength = 12
	// CompactThreshold is the display length above which frames are compact.
	CompactThreshold = 9

	resultDecimals    = 10
	exponentThreshold = 1e12
	exponentDigits    = 6
	significantDigits = 10
)

// ParseNumber reads the longest numeric prefix of s, like a browser's
// parseFloat. Strings without such a prefix ("", "-", ".") read as 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch {
	case strings.HasPrefix(s, "Infinity"), strings.HasPrefix(s, "+Infinity"):
		return math.Inf(1)
	case strings.HasPrefix(s, "-Infinity"):
		return math.Inf(-1)
	}
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

// numericPrefix returns the length of the longest prefix of s matching
// [+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?, or 0.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			fracDigits++
		}
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// FormatNumber renders f the way a browser stringifies a number: the
// shortest decimal that round-trips, switching to exponent form only for
// magnitudes below 1e-6 or from 1e21 upwards.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	mant, exp := splitExponent(strconv.FormatFloat(f, 'e', -1, 64))
	digits := strings.Replace(mant, ".", "", 1)
	k := len(digits)
	n := exp + 1

	var b strings.Builder
	b.WriteString(sign)
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteString(exponentSuffix(n - 1))
	}
	return b.String()
}

// FormatResult applies precision correction and the display overflow
// rules to an evaluation result.
func FormatResult(r float64) string {
	r = roundResult(r)
	s := FormatNumber(r)
	if len(s) <= MaxInputLength {
		return s
	}
	if math.Abs(r) >= exponentThreshold {
		return formatExponential(r, exponentDigits)
	}
	p, err := strconv.ParseFloat(strconv.FormatFloat(r, 'g', significantDigits, 64), 64)
	if err != nil {
		return s
	}
	return FormatNumber(p)
}

// roundResult rounds to 10 decimal places so binary noise such as
// 0.30000000000000004 collapses to 0.3. Exact ties round toward +Inf.
// Rounding works on the decimal text form; scaling by 1e10 would add
// noise of its own to values near 1e12.
func roundResult(r float64) float64 {
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return r
	}
	text := strconv.FormatFloat(r, 'f', resultDecimals, 64)
	if short := strconv.FormatFloat(r, 'f', -1, 64); isTie(short) {
		// FormatFloat breaks ties to even; drop the final 5 instead and
		// step up when positive.
		text = short[:len(short)-1]
		if r > 0 {
			text = incrementLastDigit(text)
		}
	}
	rounded, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return r
	}
	return rounded
}

// isTie reports whether the decimal s has exactly one digit past the
// rounding position and that digit is 5.
func isTie(s string) bool {
	dot := strings.IndexByte(s, '.')
	return dot >= 0 && len(s)-dot-1 == resultDecimals+1 && s[len(s)-1] == '5'
}

// incrementLastDigit adds one unit in the last place of an unsigned
// decimal string, carrying through nines and the decimal point.
func incrementLastDigit(s string) string {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		switch {
		case b[i] == '.':
			continue
		case b[i] == '9':
			b[i] = '0'
		default:
			b[i]++
			return string(b)
		}
	}
	return "1" + string(b)
}

// formatExponential renders f with exactly frac fractional digits and an
// unpadded signed exponent, e.g. "1.524156e+12".
func formatExponential(f float64, frac int) string {
	mant, exp := splitExponent(strconv.FormatFloat(f, 'e', frac, 64))
	return mant + exponentSuffix(exp)
}

func splitExponent(s string) (string, int) {
	i := strings.IndexByte(s, 'e')
	if i < 0 {
		return s, 0
	}
	exp, _ := strconv.Atoi(s[i+1:])
	return s[:i], exp
}

func exponentSuffix(exp int) string {
	if exp < 0 {
		return "e-" + strconv.Itoa(-exp)
	}
	return "e+" + strconv.Itoa(exp)
}

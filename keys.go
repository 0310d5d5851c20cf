package calculatorx

import "strings"

// ParseKey translates a physical key name, as reported by a keyboard
// adapter, into an event.
func ParseKey(key string) (Event, bool) {
	if len(key) == 1 && isDigit(key[0]) {
		return Digit(int(key[0] - '0')), true
	}
	switch key {
	case ".":
		return Decimal(), true
	case "+":
		return Op(OpAdd), true
	case "-":
		return Op(OpSub), true
	case "*":
		return Op(OpMul), true
	case "/":
		return Op(OpDiv), true
	case "Enter", "=":
		return Equals(), true
	case "Escape", "c", "C":
		return Clear(), true
	case "Backspace":
		return Backspace(), true
	case "%":
		return Percent(), true
	}
	return Event{}, false
}

// ParseControl translates the name of an on-screen control into an event.
// Digit controls are named "digit-0" through "digit-9".
func ParseControl(name string) (Event, bool) {
	if d, ok := strings.CutPrefix(name, "digit-"); ok {
		if len(d) == 1 && isDigit(d[0]) {
			return Digit(int(d[0] - '0')), true
		}
		return Event{}, false
	}
	switch name {
	case "decimal":
		return Decimal(), true
	case "add":
		return Op(OpAdd), true
	case "subtract":
		return Op(OpSub), true
	case "multiply":
		return Op(OpMul), true
	case "divide":
		return Op(OpDiv), true
	case "equals":
		return Equals(), true
	case "clear":
		return Clear(), true
	case "delete":
		return Backspace(), true
	case "negate":
		return SignToggle(), true
	case "percent":
		return Percent(), true
	}
	return Event{}, false
}

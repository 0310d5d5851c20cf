package calculatorx

import (
	"testing"
)

// BenchmarkDigitEntry measures appending digits to the current value.
func BenchmarkDigitEntry(b *testing.B) {
	e := New()
	ev := Digit(7)
	reset := Clear()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%MaxInputLength == 0 {
			e.HandleEvent(reset)
		}
		e.HandleEvent(ev)
	}
}

// BenchmarkChainedEvaluation measures an operator that folds a pending
// operation.
func BenchmarkChainedEvaluation(b *testing.B) {
	e := New()
	e.HandleEvent(Digit(1))
	add := Op(OpAdd)
	one := Digit(1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.HandleEvent(add)
		e.HandleEvent(one)
	}
}

// BenchmarkErrorRecovery measures entering Error and clearing it with input,
// which arms and cancels the auto-clear timer.
func BenchmarkErrorRecovery(b *testing.B) {
	e := New()
	defer e.Close()
	seq := []Event{Digit(1), Op(OpDiv), Digit(0), Equals()}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, ev := range seq {
			e.HandleEvent(ev)
		}
	}
}

func BenchmarkFormatResult(b *testing.B) {
	for i := 0; i < b.N; i++ {
		FormatResult(float64(i) / 3)
	}
}

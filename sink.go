package calculatorx

// Sink renders the display after every processed event. It performs no
// logic of its own.
type Sink interface {
	Render(text string, compact bool)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(text string, compact bool)

func (fn SinkFunc) Render(text string, compact bool) {
	fn(text, compact)
}

type discardSink struct{}

func (discardSink) Render(string, bool) {}

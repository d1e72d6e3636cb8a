package logger

// Sink is the capability the editor core depends on: write one leveled,
// formatted line.
type Sink interface {
	Writeln(level Level, format string, args ...any)
}

type nopSink struct{}

func (nopSink) Writeln(Level, string, ...any) {}

// Nop discards everything written to it.
var Nop Sink = nopSink{}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop
	}
	return s
}

package huffman

import (
	"fmt"
	"runtime"
)

// Config holds the settings shared by the functions in this package.
type Config struct {
	Observer Observer // Receives diagnostic events (nil = none)
	Workers  int      // Segment-mode parallelism (0 = GOMAXPROCS)
}

// Option is a functional option for configuring the codec.
type Option func(*Config)

// WithObserver subscribes o to the codec's diagnostic events.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// WithWorkers caps the number of segments encoded or decoded concurrently.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

func makeConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Workers < 1 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg
}

func (cfg Config) emit(ev Event) {
	if cfg.Observer != nil {
		cfg.Observer.Observe(ev)
	}
}

// EventKind identifies which step of the codec produced an Event.
type EventKind byte

const (
	EventTreeBuilt EventKind = iota + 1
	EventTableGenerated
	EventEncoded
	EventDecoded
)

var eventKindNames = [...]string{
	EventTreeBuilt:      "tree-built",
	EventTableGenerated: "table-generated",
	EventEncoded:        "encoded",
	EventDecoded:        "decoded",
}

// String returns the name of the event kind.
func (k EventKind) String() string {
	if k > 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", byte(k))
}

var _ fmt.Stringer = EventKind(0)

// Event describes one completed step of the codec.  Fields that do not
// apply to Kind are zero.
type Event struct {
	Kind EventKind

	// Tokens is the number of distinct tokens (tree, table) or the number of
	// tokens processed (encode, decode).
	Tokens int

	// Internals is the number of internal tree nodes.
	Internals int

	// Bits is the number of bits produced or consumed.
	Bits int

	// Segments is the number of segments processed in segment mode.
	Segments int

	// MinSize and MaxSize bound the code lengths of a generated table.
	MinSize byte
	MaxSize byte
}

// Observer receives diagnostic events.  Observe may be called from several
// goroutines at once in segment mode.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts an ordinary function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls fn(ev).
func (fn ObserverFunc) Observe(ev Event) {
	fn(ev)
}

var _ Observer = ObserverFunc(nil)

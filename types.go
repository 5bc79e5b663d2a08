package goblockly

// DefaultColour is the block colour used when a batch does not name one.
const DefaultColour = "#404040"

// DefaultSeparator joins an owner prefix and a member name ("gpio.read").
const DefaultSeparator = "."

// Options configures synthesis of one declaration batch.
type Options struct {
	// Colour is the display colour of every block synthesized by the batch.
	Colour string
	// Separator joins namespace/object prefixes with member names.
	Separator string
	// Category labels the batch in issues and diagnostics.
	Category string
}

// WithDefaults returns a copy of o with empty fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.Colour == "" {
		o.Colour = DefaultColour
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	return o
}

// Kind tells whether a block produces a value or stands as a statement.
type Kind int

const (
	KindStatement  Kind = iota // previous/next connectors, emits full statements
	KindExpression             // value output, emits expression text
)

func (k Kind) String() string {
	if k == KindExpression {
		return "expression"
	}
	return "statement"
}

// Diag carries non-fatal warnings produced while loading declarations or
// compiling a workspace.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

// Warnings is the slice-backed Diag implementation.
type Warnings []string

func (w Warnings) HasWarnings() bool  { return len(w) > 0 }
func (w Warnings) Warnings() []string { return append([]string(nil), w...) }

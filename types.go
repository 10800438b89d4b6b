package schemaprep

// Severity expresses how a tolerated irregularity in the input is treated.
type Severity int

const (
	SeverityIgnore Severity = iota
	SeverityWarn
	SeverityError
)

// Default limits used when the corresponding option is zero.
const (
	DefaultMaxDepth    = 1000
	DefaultMaxRefDepth = 1000
	DefaultMaxRefNodes = 1_000_000
)

// ParseOpt bundles decoding options.
type ParseOpt struct {
	// OnDuplicateKey selects what happens to repeated object keys. The
	// later value always wins unless the severity is SeverityError.
	OnDuplicateKey Severity
	// MaxDepth limits container nesting. Zero means DefaultMaxDepth and a
	// negative value disables the check.
	MaxDepth int
	// MaxBytes rejects larger inputs; zero disables the check.
	MaxBytes int64
	// Warn receives duplicate key warnings under SeverityWarn.
	Warn func(path, msg string)
}

func (o ParseOpt) maxDepth() int {
	switch {
	case o.MaxDepth == 0:
		return DefaultMaxDepth
	case o.MaxDepth < 0:
		return 0
	default:
		return o.MaxDepth
	}
}

// ResolveOpt configures Resolve.
type ResolveOpt struct {
	// MaxDepth bounds the number of references expanded inside one another.
	// Zero means DefaultMaxRefDepth.
	MaxDepth int
	// MaxNodes bounds the number of values in the resolved document, so
	// definitions that reference each other many times over cannot blow up.
	// Zero means DefaultMaxRefNodes.
	MaxNodes int
}

func (o ResolveOpt) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxRefDepth
	}
	return o.MaxDepth
}

func (o ResolveOpt) maxNodes() int {
	if o.MaxNodes <= 0 {
		return DefaultMaxRefNodes
	}
	return o.MaxNodes
}

// Options configures Process.
type Options struct {
	Parse   ParseOpt
	Resolve ResolveOpt
}

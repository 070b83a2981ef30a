package ufs

// Option represents a configuration option for an entry operation
type Option func(*Options)

// Options contains all possible options for entry operations
type Options struct {
	// Sudo is the elevated credential used for privileged local operations
	Sudo string

	// Args are extra flags handed to privileged local commands
	Args []string

	// Recursive creates missing parents (mkdir -p) or applies a privileged
	// change recursively (-R)
	Recursive bool

	// Bucket shadows the session's current bucket for one remote call
	Bucket string

	// ContentType sets the MIME type stored with a remote object
	ContentType string

	// Selector filters the entries returned by List
	Selector Selector

	// Attributes override the entry's managed attributes on Create
	Attributes *Attributes
}

// WithSudo runs privileged local operations through sudo with the given
// password
func WithSudo(password string) Option {
	return func(o *Options) {
		o.Sudo = password
	}
}

// WithArgs passes extra flags to privileged local commands
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.Args = append(o.Args, args...)
	}
}

// WithRecursive enables recursive creation or privileged changes
func WithRecursive() Option {
	return func(o *Options) {
		o.Recursive = true
	}
}

// WithBucket targets a bucket other than the current one
func WithBucket(bucket string) Option {
	return func(o *Options) {
		o.Bucket = bucket
	}
}

// WithContentType sets the content type of a remote object
func WithContentType(contentType string) Option {
	return func(o *Options) {
		o.ContentType = contentType
	}
}

// WithSelector filters listed entries
func WithSelector(selector Selector) Option {
	return func(o *Options) {
		o.Selector = selector
	}
}

// WithAttributes sets the managed attributes applied by Create
func WithAttributes(attrs Attributes) Option {
	return func(o *Options) {
		o.Attributes = &attrs
	}
}

// ApplyOptions processes the provided options
func ApplyOptions(options ...Option) *Options {
	opts := &Options{}
	for _, option := range options {
		if option != nil {
			option(opts)
		}
	}
	return opts
}

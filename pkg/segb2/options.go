package segb2

import "github.com/bft-labs/segb/pkg/log"

// Option configures optional behavior of a Reader.
type Option func(*options)

type options struct {
	logger log.Logger
}

func defaultOptions() options {
	return options{logger: log.NewNoopLogger()}
}

// WithLogger sets the logger used for debug tracing and framing warnings.
// If not provided, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

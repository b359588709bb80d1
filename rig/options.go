package rig

import (
	"go.viam.com/robotanim/logging"
	"go.viam.com/robotanim/urdf"
)

type options struct {
	logger        logging.Logger
	resolver      *urdf.Resolver
	strictVisuals bool
}

// Option configures BuildModel.
type Option func(*options)

// WithLogger sets the logger used while importing.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithResolver sets how mesh filenames are mapped to local files. The default searches the
// directories named by the ROS, ament and Gazebo environment variables.
func WithResolver(resolver *urdf.Resolver) Option {
	return func(o *options) {
		o.resolver = resolver
	}
}

// WithStrictVisuals makes links whose visuals are all primitive shapes an error instead of being skipped.
func WithStrictVisuals() Option {
	return func(o *options) {
		o.strictVisuals = true
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Global().Sublogger("rig")
	}
	if o.resolver == nil {
		o.resolver = urdf.NewResolverFromEnv()
	}
	return o
}

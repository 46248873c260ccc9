package mjpeg

// Option customizes session creation.
type Option func(*sessionOptions)

type sessionOptions struct {
	engine  Engine
	backend Backend
}

// WithEngine supplies an explicit engine implementation, bypassing backend
// selection. Intended for tests and embedders with their own hardware
// integration.
func WithEngine(engine Engine) Option {
	return func(o *sessionOptions) {
		o.engine = engine
	}
}

// WithBackend selects the engine backend. The default is BackendAuto,
// which prefers hardware and falls back to the software engine.
func WithBackend(b Backend) Option {
	return func(o *sessionOptions) {
		o.backend = b
	}
}

// resolveEngine applies options and returns the engine to bind.
func resolveEngine(opts []Option) (Engine, error) {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine != nil {
		return o.engine, nil
	}
	return newEngine(o.backend)
}

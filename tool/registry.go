package tool

import (
	"sync"

	"github.com/furixturi/deep-research-scratch/internal/util"
	"github.com/furixturi/deep-research-scratch/logging"
	"github.com/furixturi/deep-research-scratch/model"
)

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// RegisterOptions configure a single registration.
type RegisterOptions struct {
	// Parameters overrides the default "query" schema.
	Parameters map[string]any
}

// WithParameters sets the parameter schema of a registration.
func WithParameters(schema map[string]any) func(o *RegisterOptions) {
	return func(o *RegisterOptions) { o.Parameters = schema }
}

// Registry holds the tools available to agents. Registration is append-only;
// entries are never updated or removed. All methods are safe for concurrent
// use, though registrations are expected to finish before the first run.
type Registry struct {
	mu     sync.RWMutex
	specs  map[string]Spec
	order  []string
	logger logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Registry{
		specs:  make(map[string]Spec),
		logger: opts.Logger,
	}
}

// Register adds a tool. It fails with *DuplicateToolError if name is taken,
// leaving the first registration in place.
func (r *Registry) Register(name, description string, h Handler, optFns ...func(o *RegisterOptions)) error {
	opts := RegisterOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Parameters == nil {
		opts.Parameters = util.QuerySchema()
	}

	r.mu.Lock()
	if _, exists := r.specs[name]; exists {
		r.mu.Unlock()
		return &DuplicateToolError{Name: name}
	}
	r.specs[name] = Spec{
		Name:        name,
		Description: description,
		Parameters:  opts.Parameters,
		Handler:     h,
	}
	r.order = append(r.order, name)
	total := len(r.order)
	r.mu.Unlock()

	r.logger.Info("tool.registered", "tool", name, "total", total)
	return nil
}

// RegisterTool registers a self-describing tool.
func (r *Registry) RegisterTool(t Tool) error {
	return r.Register(t.Name(), t.Description(), t, WithParameters(t.Parameters()))
}

// MustRegister is like Register but panics on error. Intended for process
// start-up wiring.
func (r *Registry) MustRegister(name, description string, h Handler, optFns ...func(o *RegisterOptions)) {
	if err := r.Register(name, description, h, optFns...); err != nil {
		panic(err)
	}
}

// Lookup returns the entry for name or *UnknownToolError.
func (r *Registry) Lookup(name string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[name]
	if !ok {
		return Spec{}, &UnknownToolError{Name: name}
	}
	return spec, nil
}

// ListTools maps each tool name to its description.
func (r *Registry) ListTools() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.specs))
	for name, spec := range r.specs {
		out[name] = spec.Description
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// SchemaForModel returns the tool catalog handed to the model, in
// registration order.
func (r *Registry) SchemaForModel() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		spec := r.specs[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		})
	}
	return defs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

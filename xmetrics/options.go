package xmetrics

import "github.com/prometheus/client_golang/prometheus"

const (
	DefaultNamespace = "osprey"
	DefaultSubsystem = "rtcommon"
)

// Options is the configurable options for creating a Prometheus registry
type Options struct {
	// Namespace is the global default namespace for metrics which don't define a namespace.
	// If not supplied, DefaultNamespace is used.
	Namespace string `json:"namespace"`

	// Subsystem is the global default subsystem for metrics which don't define a subsystem.
	// If not supplied, DefaultSubsystem is used.
	Subsystem string `json:"subsystem"`

	// Pedantic indicates whether the registry is created via NewPedanticRegistry().  By default, this is false.
	// Set to true for testing or development.
	Pedantic bool `json:"pedantic"`

	// Metrics defines the set of predefined metrics.  These metrics will be defined immediately by a Registry
	// created using this Options instance.  This field is optional.
	//
	// Any duplicate metrics will cause an error.  Duplicate metrics are defined as those having the same
	// namespace, subsystem, and name.
	Metrics []Metric `json:"metrics"`
}

func (o *Options) namespace() string {
	if o != nil && len(o.Namespace) > 0 {
		return o.Namespace
	}

	return DefaultNamespace
}

func (o *Options) subsystem() string {
	if o != nil && len(o.Subsystem) > 0 {
		return o.Subsystem
	}

	return DefaultSubsystem
}

func (o *Options) pedantic() bool {
	return o != nil && o.Pedantic
}

func (o *Options) registry() *prometheus.Registry {
	if o.pedantic() {
		return prometheus.NewPedanticRegistry()
	}

	return prometheus.NewRegistry()
}

func (o *Options) metrics() []Metric {
	if o != nil {
		return o.Metrics
	}

	return nil
}

// Module acts as a metrics module function using the (normally) injected metrics.
func (o *Options) Module() []Metric {
	return o.metrics()
}

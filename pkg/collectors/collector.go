// Package collectors provides interfaces and implementations for the machine
// health readings shown on the dashboard.
package collectors

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrUnsupported is returned by collectors that have no implementation on
// the running platform.
var ErrUnsupported = errors.New("collector not supported on this platform")

// Reading is a single metric sample.
type Reading struct {
	// Value is the parsed numeric value.
	Value float64
	// Raw is the unparsed text the value was read from.
	Raw string
	// Unit describes Value (e.g. "C", "ratio", "pwm").
	Unit string
	// Source names where the value came from (file path or syscall).
	Source string
}

// Collector is the interface that all metric collectors must implement.
type Collector interface {
	// Name returns the name of the metric being collected (e.g., "cpu", "fan").
	Name() string

	// Read takes one sample. Implementations that need to wait between
	// observations honour ctx.
	Read(ctx context.Context) (Reading, error)
}

// Opener opens a file for reading. Collectors take one so tests can serve
// fixture content instead of /proc and /sys.
type Opener func(path string) (io.ReadCloser, error)

// OpenFile is the default Opener.
func OpenFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// ReadAll reads the whole file at path through open.
func ReadAll(open Opener, path string) ([]byte, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Registry holds all registered collectors.
type Registry struct {
	collectors []Collector
}

// NewRegistry creates a new collector registry.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make([]Collector, 0),
	}
}

// Register adds a collector to the registry.
func (r *Registry) Register(c Collector) {
	r.collectors = append(r.collectors, c)
}

// Collectors returns all registered collectors.
func (r *Registry) Collectors() []Collector {
	return r.collectors
}

// GetByName returns a collector by name, or nil if not found.
func (r *Registry) GetByName(name string) Collector {
	for _, c := range r.collectors {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

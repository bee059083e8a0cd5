package multi

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"github.com/crimson-sun/pagepulse/internal/model"
	"github.com/crimson-sun/pagepulse/internal/output"
)

// Multi fans a report out to several outputs in order. A failing output does
// not stop delivery to the rest.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over the non-nil outputs.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: lo.Filter(outputs, func(o output.Output, _ int) bool { return o != nil })}
}

// Len returns the number of wrapped outputs.
func (m *Multi) Len() int {
	return len(m.outputs)
}

// Write delivers the report to every wrapped output and joins their errors.
func (m *Multi) Write(ctx context.Context, report model.Report) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Write(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped output and joins their errors.
func (m *Multi) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

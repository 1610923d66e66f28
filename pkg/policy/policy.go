// Package policy maps a latched vehicle count to a green duration
package policy

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// BaseGreenSeconds is the green floor every approach receives
const BaseGreenSeconds = 10

// Step adds Extra seconds once the count reaches MinCount
type Step struct {
	MinCount int `yaml:"min_count"`
	Extra    int `yaml:"extra"`
}

// Allocation is the green time granted at a vehicle-green entry
type Allocation struct {
	Base  int
	Extra int
}

// Total returns the full green duration in seconds
func (a Allocation) Total() int {
	return a.Base + a.Extra
}

// GreenTimePolicy computes green allocations from vehicle counts
type GreenTimePolicy interface {
	Allocate(count uint) Allocation
}

// StepPolicy is a monotonic step function over the vehicle count
type StepPolicy struct {
	Base  int
	Steps []Step // ascending by MinCount
}

// Default returns the stock table: 0-4 -> 10s, 5-9 -> 20s, 10-14 -> 30s, 15+ -> 40s
func Default() *StepPolicy {
	return &StepPolicy{
		Base: BaseGreenSeconds,
		Steps: []Step{
			{MinCount: 5, Extra: 10},
			{MinCount: 10, Extra: 20},
			{MinCount: 15, Extra: 30},
		},
	}
}

// Allocate returns the base/extra split for count
func (p *StepPolicy) Allocate(count uint) Allocation {
	extra := 0
	for _, step := range p.Steps {
		if count < uint(step.MinCount) {
			break
		}
		extra = step.Extra
	}
	return Allocation{Base: p.Base, Extra: extra}
}

// Seconds returns the total green seconds for count
func (p *StepPolicy) Seconds(count uint) int {
	return p.Allocate(count).Total()
}

// Validate checks that the table is a non-decreasing step function
func (p *StepPolicy) Validate() error {
	var result *multierror.Error

	if p.Base <= 0 {
		result = multierror.Append(result, fmt.Errorf("base green must be positive, got %d", p.Base))
	}

	prevCount, prevExtra := 0, 0
	for i, step := range p.Steps {
		if step.MinCount <= prevCount {
			result = multierror.Append(result,
				fmt.Errorf("step %d: min_count %d must be greater than %d", i, step.MinCount, prevCount))
		}
		if step.Extra < prevExtra {
			result = multierror.Append(result,
				fmt.Errorf("step %d: extra %d is below previous step's %d", i, step.Extra, prevExtra))
		}
		prevCount, prevExtra = step.MinCount, step.Extra
	}

	return result.ErrorOrNil()
}

// Seconds applies the default table to count
func Seconds(count uint) int {
	return Default().Seconds(count)
}

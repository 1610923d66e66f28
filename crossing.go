// Package crossing controls a two-approach signalised intersection with an
// interleaved pedestrian crossing. Each vehicle green is sized from the count
// of vehicles that arrived while the approach was red, and time only advances
// through an injectable one-second Clock that also samples the push buttons.
package crossing

import (
	"github.com/anggasct/crossing/pkg/display"
	"github.com/anggasct/crossing/pkg/input"
	"github.com/anggasct/crossing/pkg/policy"
)

// Re-export collaborator types
type (
	// Button identifies one of the three push buttons
	Button = input.Button

	// Allocation is the green time granted at a vehicle-green entry
	Allocation = policy.Allocation

	// GreenTimePolicy computes green allocations from vehicle counts
	GreenTimePolicy = policy.GreenTimePolicy

	// Frame is one screenful of the status panel
	Frame = display.Frame

	// DisplaySink receives rendered frames
	DisplaySink = display.Sink
)

// Re-export constants
const (
	ButtonNS         = input.ButtonNS
	ButtonEW         = input.ButtonEW
	ButtonPedestrian = input.ButtonPedestrian

	// BaseGreenSeconds is the green floor every approach receives
	BaseGreenSeconds = policy.BaseGreenSeconds
)

// Re-export constructors
var (
	// DefaultPolicy returns the stock green time table
	DefaultPolicy = policy.Default

	// GreenSeconds applies the stock table to a vehicle count
	GreenSeconds = policy.Seconds

	// NewPresenter creates a display formatter clipping to width
	NewPresenter = display.NewPresenter
)

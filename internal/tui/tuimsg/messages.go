// Package tuimsg holds the messages scenes send to the root model. It exists so
// scenes do not import the tui package.
package tuimsg

import (
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/transform"
)

// ScenarioSelectedMsg asks for the breakdown of one scenario
type ScenarioSelectedMsg struct {
	Type domain.ScenarioType
}

// EditRequestedMsg asks the root model to apply a transform to the working
// configuration and requote
type EditRequestedMsg struct {
	Transform transform.ConfigTransform
}

// CompareRequestedMsg asks for a what-if comparison of the working configuration
type CompareRequestedMsg struct {
	Templates []string
}

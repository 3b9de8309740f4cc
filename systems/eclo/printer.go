package eclo

import (
	"github.com/go-home-io/lightmgr/plugins/light"
	"gopkg.in/yaml.v2"
)

// Printed state representation.
type printedState struct {
	Descr       string `yaml:"descr"`
	Kind        string `yaml:"kind"`
	Curve       string `yaml:"curve"`
	light.State `yaml:",inline"`
}

// FormatState returns human-readable light state.
func FormatState(descr string, state *light.State) string {
	if nil == state {
		return ""
	}

	data, err := yaml.Marshal(&printedState{
		Descr: descr,
		Kind:  state.Kind.String(),
		Curve: state.Curve.String(),
		State: *state,
	})
	if err != nil {
		return ""
	}

	return string(data)
}

package light

import "github.com/go-home-io/lightmgr/plugins/light/enums"

// State is a light snapshot broadcasted to observers.
// Fields are encoded as a fixed-layout array, order must never change.
type State struct {
	_ struct{} `cbor:",toarray"`

	Kind        enums.LightKind `yaml:"-"`
	Curve       enums.Curve     `yaml:"-"`
	FadeTime    int32           `yaml:"fade_time"`
	Scale       int32           `yaml:"scale"`
	Step        int32           `yaml:"step"`
	Value       int32           `yaml:"value"`
	MaxValue    int32           `yaml:"max_value"`
	ValueScaled int32           `yaml:"value_scaled"`
	Power       float32         `yaml:"power"`
	MaxPower    float32         `yaml:"max_power"`
	ActiveLevel bool            `yaml:"active_level"`
}

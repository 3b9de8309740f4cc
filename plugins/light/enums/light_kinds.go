// Package enums contains enumerations shared by lights, composites and event nodes.
package enums

import "fmt"

// LightKind describes enum with known light source kinds.
type LightKind uint8

const (
	// LightGeneric describes unspecified light source.
	LightGeneric LightKind = iota
	// LightConstant describes on/off light source, i.e. an ordinary lamp or relay.
	LightConstant
	// LightDimmable describes continuously dimmable light source.
	LightDimmable
	// LightRGB describes multi-channel color light source.
	LightRGB
	// LightDynamic describes addressable led light source.
	LightDynamic
	// LightComposite describes light unit with more than one light source.
	LightComposite
)

var lightKindNames = []string{"generic", "constant", "dimmable", "rgb", "dynamic", "composite"}

// String returns kind name.
func (i LightKind) String() string {
	if int(i) >= len(lightKindNames) {
		return fmt.Sprintf("LightKind(%d)", i)
	}

	return lightKindNames[i]
}

// LightKindString returns kind from its name.
func LightKindString(s string) (LightKind, error) {
	ii := indexOf(lightKindNames, s)
	if ii < 0 {
		return LightGeneric, &ErrUnknownValue{Enum: "LightKind", Value: s}
	}

	return LightKind(ii), nil
}

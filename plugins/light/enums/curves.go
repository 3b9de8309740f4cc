package enums

import "fmt"

// Curve describes enum with known perceptual brightness curves.
type Curve uint8

const (
	// CurveBinary describes on/off curve, anything above a half is full brightness.
	CurveBinary Curve = iota
	// CurveLinear describes identity mapping.
	CurveLinear
	// CurveCIE1931 describes CIE 1931 lightness curve.
	CurveCIE1931
	// CurveExponent describes exponential curve.
	CurveExponent
	// CurveSine describes sine-wave curve.
	CurveSine
	// CurveSquare describes quadratic curve.
	CurveSquare
)

var curveNames = []string{"binary", "linear", "cie1931", "exponent", "sine", "square"}

// String returns curve name.
func (i Curve) String() string {
	if int(i) >= len(curveNames) {
		return fmt.Sprintf("Curve(%d)", i)
	}

	return curveNames[i]
}

// CurveString returns curve from its name.
func CurveString(s string) (Curve, error) {
	ii := indexOf(curveNames, s)
	if ii < 0 {
		return CurveLinear, &ErrUnknownValue{Enum: "Curve", Value: s}
	}

	return Curve(ii), nil
}

// IsValid checks whether curve is one of the known values.
func (i Curve) IsValid() bool {
	return int(i) < len(curveNames)
}

// Package luma implements perceptual brightness curves.
// Every curve maps a luma value from [0, maxLuma] onto a duty value in [0, maxDuty] and back.
package luma

import (
	"math"

	"github.com/go-home-io/lightmgr/plugins/light/enums"
)

const (
	// CIE 1931 linear segment slope.
	cieKappa = 902.3
	// CIE 1931 linear segment threshold, in percents.
	cieThreshold = 8.0
)

// Map converts luma value into duty value using requested curve.
func Map(c enums.Curve, luma int32, maxDuty int32, maxLuma int32) int32 {
	if maxDuty <= 0 || maxLuma <= 0 || luma <= 0 {
		return 0
	}

	switch c {
	case enums.CurveBinary:
		return mapBinary(luma, maxDuty, maxLuma)
	case enums.CurveCIE1931:
		return mapCIE1931(luma, maxDuty, maxLuma)
	case enums.CurveExponent:
		return mapExponent(luma, maxDuty, maxLuma)
	case enums.CurveSine:
		return mapSine(luma, maxDuty, maxLuma)
	case enums.CurveSquare:
		return mapSquare(luma, maxDuty, maxLuma)
	default:
		return mapLinear(luma, maxDuty, maxLuma)
	}
}

// UnMap converts duty value back into luma value using requested curve.
func UnMap(c enums.Curve, duty int32, maxDuty int32, maxLuma int32) int32 {
	if maxDuty <= 0 || maxLuma <= 0 || duty <= 0 {
		return 0
	}

	if duty >= maxDuty {
		return maxLuma
	}

	switch c {
	case enums.CurveBinary:
		return maxLuma
	case enums.CurveCIE1931:
		return unMapCIE1931(duty, maxDuty, maxLuma)
	case enums.CurveExponent:
		return unMapExponent(duty, maxDuty, maxLuma)
	case enums.CurveSine:
		return unMapSine(duty, maxDuty, maxLuma)
	case enums.CurveSquare:
		return unMapSquare(duty, maxDuty, maxLuma)
	default:
		return unMapLinear(duty, maxDuty, maxLuma)
	}
}

// Anything at or above a half of the scale is on.
func mapBinary(l int32, maxDuty int32, maxL int32) int32 {
	if int64(l)*2 >= int64(maxL) {
		return maxDuty
	}

	return 0
}

func mapLinear(l int32, maxDuty int32, maxL int32) int32 {
	if l >= maxL {
		return maxDuty
	}

	return round(float64(maxDuty) * float64(l) / float64(maxL))
}

func unMapLinear(duty int32, maxDuty int32, maxL int32) int32 {
	return round(float64(duty) * float64(maxL) / float64(maxDuty))
}

func mapCIE1931(l int32, maxDuty int32, maxL int32) int32 {
	if l >= maxL {
		return maxDuty
	}

	scaled := float64(l) / float64(maxL) * 100
	if scaled > cieThreshold {
		return round(math.Pow((scaled+16)/116, 3) * float64(maxDuty))
	}

	return round(scaled / cieKappa * float64(maxDuty))
}

func unMapCIE1931(duty int32, maxDuty int32, maxL int32) int32 {
	x := float64(duty) / float64(maxDuty)
	if x*cieKappa <= cieThreshold {
		return round(x * cieKappa * float64(maxL) / 100)
	}

	return round((math.Cbrt(x)*116 - 16) * float64(maxL) / 100)
}

// Scaling factor for the exponent curve, 2^(maxL/factor) equals maxDuty.
func exponentFactor(maxDuty int32, maxL int32) float64 {
	if maxDuty <= 1 {
		return 0
	}

	return float64(maxL) * math.Log10(2) / math.Log10(float64(maxDuty))
}

func mapExponent(l int32, maxDuty int32, maxL int32) int32 {
	if l >= maxL {
		return maxDuty
	}

	f := exponentFactor(maxDuty, maxL)
	if 0 == f {
		return mapLinear(l, maxDuty, maxL)
	}

	return round(math.Pow(2, float64(l)/f) - 1)
}

func unMapExponent(duty int32, maxDuty int32, maxL int32) int32 {
	f := exponentFactor(maxDuty, maxL)
	if 0 == f {
		return unMapLinear(duty, maxDuty, maxL)
	}

	return clamp(round(f*math.Log2(float64(duty)+1)), maxL)
}

func mapSine(l int32, maxDuty int32, maxL int32) int32 {
	if l >= maxL {
		return maxDuty
	}

	duty := float64(l) * float64(maxDuty) / float64(maxL)
	return round((math.Sin(duty*math.Pi/float64(maxDuty)-math.Pi/2) + 1) * float64(maxDuty) / 2)
}

func unMapSine(duty int32, maxDuty int32, maxL int32) int32 {
	phase := math.Asin(float64(duty)*2/float64(maxDuty)-1) + math.Pi/2
	return round(phase / math.Pi * float64(maxL))
}

func mapSquare(l int32, maxDuty int32, maxL int32) int32 {
	if l >= maxL {
		return maxDuty
	}

	x := float64(l) / float64(maxL)
	return round(x * x * float64(maxDuty))
}

func unMapSquare(duty int32, maxDuty int32, maxL int32) int32 {
	return round(math.Sqrt(float64(duty)/float64(maxDuty)) * float64(maxL))
}

func round(v float64) int32 {
	if v <= 0 {
		return 0
	}

	if v >= math.MaxInt32 {
		return math.MaxInt32
	}

	return int32(math.Round(v))
}

func clamp(v int32, max int32) int32 {
	if v > max {
		return max
	}

	return v
}

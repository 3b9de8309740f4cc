// Package driver contains hardware capabilities consumed by light sources.
package driver

// IDutyDriver defines PWM peripheral with a fixed number of channels.
// Implementations must return immediately, no call is allowed to block on hardware timing.
type IDutyDriver interface {
	Channels() uint32
	ChannelStart(channel uint32, pin string) error
	ChannelSetDutyAndPhase(channel uint32, duty int32, phase int32) error
	ChannelGetDuty(channel uint32) int32
	ChannelGetPhase(channel uint32) int32
	ChannelGetMaxDuty(channel uint32) int32
}

// ISRHandler is invoked from interrupt context when hardware fade is over.
// Handler must not block, allocate or call back into driver.
type ISRHandler func(channel uint32)

// IFadeDriver defines PWM peripheral with hardware fade support.
type IFadeDriver interface {
	IDutyDriver
	ChannelEnableFadeInterrupt(channel uint32, enable bool, isr ISRHandler) error
	ChannelRequestFade(channel uint32, duty int32, durationMs int32) error
}

// IResolutionDriver defines PWM peripheral which allows changing resolution and frequency.
type IResolutionDriver interface {
	ChannelSetPWM(channel uint32, resolution uint8, freq uint32) error
}

// IPinDriver defines plain digital output.
type IPinDriver interface {
	PinStart(pin string) error
	PinSet(pin string, level bool) error
	PinGet(pin string) bool
}

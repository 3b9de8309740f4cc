//+build !release

package mocks

import (
	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/providers"
	"github.com/go-home-io/lightmgr/systems"
)

type fakeSettings struct {
	logger *fakeLogger
	bus    *fakeBus
	cron   *fakeCron
	driver *fakeDutyDriver
	node   *providers.NodeSettings
	closed bool

	validator providers.IValidatorProvider
}

func (s *fakeSettings) SystemLogger() common.ILoggerProvider {
	return s.logger
}

func (s *fakeSettings) PluginLogger(systems.SystemType, string) common.ILoggerProvider {
	return s.logger
}

func (s *fakeSettings) Bus() bus.IControlBus {
	return s.bus
}

func (s *fakeSettings) Cron() providers.ICronProvider {
	return s.cron
}

func (s *fakeSettings) Validator() providers.IValidatorProvider {
	if s.validator != nil {
		return s.validator
	}

	return FakeNewValidator(true)
}

// SetValidator replaces always-successful validator.
func (s *fakeSettings) SetValidator(v providers.IValidatorProvider) {
	s.validator = v
}

func (s *fakeSettings) DutyDriver() driver.IDutyDriver {
	return s.driver
}

func (s *fakeSettings) PinDriver() driver.IPinDriver {
	return s.driver
}

// Fader is not available, lights change values immediately.
func (s *fakeSettings) Fader() driver.IFadeController {
	return nil
}

func (s *fakeSettings) NodeSettings() *providers.NodeSettings {
	return s.node
}

func (s *fakeSettings) Close() {
	s.closed = true
	s.bus.Close()
}

// FakeBus returns underlying bus.
func (s *fakeSettings) FakeBus() *fakeBus {
	return s.bus
}

// FakeDriver returns underlying driver.
func (s *fakeSettings) FakeDriver() *fakeDutyDriver {
	return s.driver
}

// IsClosed returns whether settings were closed.
func (s *fakeSettings) IsClosed() bool {
	return s.closed
}

// FakeNewSettings creates a fake settings provider.
// Every channel of the driver has the same max duty.
func FakeNewSettings(node *providers.NodeSettings, channels int, maxDuty int32) *fakeSettings {
	duties := make([]int32, channels)
	for ii := range duties {
		duties[ii] = maxDuty
	}

	return &fakeSettings{
		logger: FakeNewLogger(nil),
		bus:    FakeNewBus(),
		cron:   FakeNewCron(),
		driver: FakeNewDutyDriver(duties...),
		node:   node,
	}
}

package settings

import (
	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/providers"
	"github.com/go-home-io/lightmgr/systems"
	"github.com/go-home-io/lightmgr/systems/logger"
)

// SystemLogger returns default system logger.
func (s *settingsProvider) SystemLogger() common.ILoggerProvider {
	return s.logger
}

// PluginLogger returns logger for the system's provider.
func (s *settingsProvider) PluginLogger(system systems.SystemType, provider string) common.ILoggerProvider {
	return logger.NewPluginLogger(&logger.ConstructPluginLogger{
		SystemLogger: s.logger,
		System:       system.String(),
		Provider:     provider,
	})
}

// Bus returns control bus.
func (s *settingsProvider) Bus() bus.IControlBus {
	return s.bus
}

// Cron returns system's cron provider.
func (s *settingsProvider) Cron() providers.ICronProvider {
	return s.cron
}

// Validator returns validator provider.
func (s *settingsProvider) Validator() providers.IValidatorProvider {
	return s.validator
}

// DutyDriver returns PWM driver.
func (s *settingsProvider) DutyDriver() driver.IDutyDriver {
	return s.dutyDriver
}

// PinDriver returns digital output driver.
func (s *settingsProvider) PinDriver() driver.IPinDriver {
	return s.pinDriver
}

// Fader returns fade controller.
func (s *settingsProvider) Fader() driver.IFadeController {
	return s.fader
}

// NodeSettings returns lights settings.
func (s *settingsProvider) NodeSettings() *providers.NodeSettings {
	return s.node
}

// Close releases shared services.
func (s *settingsProvider) Close() {
	s.fader.Close()
	s.bus.Close()
	if s.closer != nil {
		s.closer()
	}

	s.logger.Flush()
}

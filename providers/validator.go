package providers

import "github.com/go-home-io/lightmgr/plugins/common"

// IValidatorProvider defines ctor and message structures validator logic.
// Validation also applies `default` tags.
type IValidatorProvider interface {
	SetLogger(logger common.ILoggerProvider)
	Validate(interface{}) bool
}

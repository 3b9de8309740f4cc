package bus

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/go-home-io/lightmgr/utils"
	"github.com/pkg/errors"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Encode serializes any control bus message.
func Encode(msg interface{}) ([]byte, error) {
	data, err := encMode.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "encode failed")
	}

	return data, nil
}

// DecodeCommand parses command message.
func DecodeCommand(data []byte) (*CommandMessage, error) {
	msg := &CommandMessage{}
	if err := decode(data, msg); err != nil {
		return nil, err
	}

	return msg, checkAge(&msg.Header)
}

// DecodeService parses service message.
func DecodeService(data []byte) (*ServiceMessage, error) {
	msg := &ServiceMessage{}
	if err := decode(data, msg); err != nil {
		return nil, err
	}

	return msg, checkAge(&msg.Header)
}

// DecodeState parses state message.
func DecodeState(data []byte) (*StateMessage, error) {
	msg := &StateMessage{}
	if err := decode(data, msg); err != nil {
		return nil, err
	}

	return msg, checkAge(&msg.Header)
}

func decode(data []byte, msg interface{}) error {
	if len(data) == 0 {
		return &ErrCorruptedMessage{}
	}

	if err := decMode.Unmarshal(data, msg); err != nil {
		return &ErrCorruptedMessage{}
	}

	return nil
}

// Zero send time skips the check.
func checkAge(h *Header) error {
	if h.SendTime > 0 && utils.TimeNow()-h.SendTime > MessageTTL {
		return &ErrOldMessage{}
	}

	return nil
}

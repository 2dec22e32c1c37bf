package transcode

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2) so the same
// tree always produces identical bytes.
var encMode cbor.EncMode

// decMode decodes maps into map[string]any and rejects duplicate keys.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transcode: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("transcode: CBOR decoder initialization failed: " + err.Error())
	}
}

// ParseCBOR decodes a single CBOR data item. Byte strings decode to []byte,
// which kiwi encodes as a byte array.
func ParseCBOR(data []byte, opts ...Opt) (any, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, inputError(FormatCBOR, err)
	}
	if err := checkDepth(v, lastOpt(opts).MaxDepth); err != nil {
		return nil, err
	}
	return v, nil
}

// MarshalCBOR encodes a value tree as deterministic CBOR.
func MarshalCBOR(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

package codec

import "github.com/fxamacker/cbor/v2"

// CBOROptions tune the CBOR codec. Zero limits keep the library defaults.
// Cached bytes may come from a shared store, so decoding can be bounded.
type CBOROptions struct {
	// Deterministic selects RFC 8949 core deterministic encoding.
	Deterministic bool

	MaxNestedLevels  int
	MaxArrayElements int
	MaxMapPairs      int
	// RejectDupKeys fails decoding of maps with duplicate keys.
	RejectDupKeys bool
}

// CBOR serializes values with fxamacker/cbor. The zero value is unusable;
// build it with NewCBOR or NewCBORWith.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

func NewCBOR[V any](deterministic bool) (CBOR[V], error) {
	return NewCBORWith[V](CBOROptions{Deterministic: deterministic})
}

func NewCBORWith[V any](o CBOROptions) (CBOR[V], error) {
	eo := cbor.PreferredUnsortedEncOptions()
	if o.Deterministic {
		eo = cbor.CoreDetEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano
	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, err
	}

	do := cbor.DecOptions{
		MaxNestedLevels:  o.MaxNestedLevels,
		MaxArrayElements: o.MaxArrayElements,
		MaxMapPairs:      o.MaxMapPairs,
	}
	if o.RejectDupKeys {
		do.DupMapKey = cbor.DupMapKeyEnforcedAPF
	}
	dm, err := do.DecMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{enc: em, dec: dm}, nil
}

// MustCBOR panics on bad options. Meant for package-level vars.
func MustCBOR[V any](deterministic bool) CBOR[V] {
	c, err := NewCBOR[V](deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[V]) Encode(v V) ([]byte, error) { return c.enc.Marshal(v) }

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	if err := c.dec.Unmarshal(b, &v); err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}

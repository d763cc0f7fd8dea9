package codec

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

var ErrNilMessage = errors.New("codec: nil proto message")

// Protobuf stores proto messages. Marshaling is deterministic so equal
// messages produce equal entries; unknown fields are dropped on decode when
// DiscardUnknown is set, which lets old readers survive schema growth.
type Protobuf[T proto.Message] struct {
	newMsg         func() T
	DiscardUnknown bool
}

// NewProtobuf takes a constructor for empty messages,
// e.g. func() *pb.User { return &pb.User{} }.
func NewProtobuf[T proto.Message](newMsg func() T) Protobuf[T] {
	return Protobuf[T]{newMsg: newMsg}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	if !v.ProtoReflect().IsValid() {
		return nil, ErrNilMessage
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.newMsg()
	if err := (proto.UnmarshalOptions{DiscardUnknown: c.DiscardUnknown}).Unmarshal(b, m); err != nil {
		var zero T
		return zero, err
	}
	return m, nil
}

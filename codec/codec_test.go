package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type user struct {
	ID      string    `json:"id" msgpack:"uid"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

func sample() user {
	return user{ID: "1", Name: "Ada", Created: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func roundTrip[V any](t *testing.T, c Codec[V], v V) V {
	t.Helper()
	b, err := c.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return out
}

func TestCodecsRoundTripUser(t *testing.T) {
	codecs := map[string]Codec[user]{
		"json":         JSON[user]{},
		"cbor":         MustCBOR[user](false),
		"cbor-det":     MustCBOR[user](true),
		"msgpack":      Msgpack[user]{},
		"msgpack-json": Msgpack[user]{JSONTags: true},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			got := roundTrip(t, c, sample())
			want := sample()
			if got.ID != want.ID || got.Name != want.Name || !got.Created.Equal(want.Created) {
				t.Fatalf("got %+v want %+v", got, want)
			}
		})
	}
}

func TestCBORDeterministicStable(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	first, err := c.Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		next, err := c.Encode(m)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, next) {
			t.Fatalf("deterministic encoding drifted on iteration %d", i)
		}
	}
}

func TestMsgpackJSONTagsFallback(t *testing.T) {
	b, err := Msgpack[user]{JSONTags: true}.Encode(sample())
	if err != nil {
		t.Fatal(err)
	}
	// ID keeps its msgpack name; Name has only a json tag
	if !bytes.Contains(b, []byte("uid")) || !bytes.Contains(b, []byte("name")) {
		t.Fatalf("unexpected field names in payload: %q", b)
	}
	if bytes.Contains(b, []byte("Name")) {
		t.Fatalf("json tag not used for untagged field: %q", b)
	}
}

func TestProtobufRoundTrip(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	got := roundTrip[*wrapperspb.StringValue](t, c, wrapperspb.String("hello"))
	if !proto.Equal(got, wrapperspb.String("hello")) {
		t.Fatalf("got %v", got)
	}
}

func TestRawCodecs(t *testing.T) {
	if got := roundTrip[[]byte](t, Bytes{}, []byte{1, 2, 3}); !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("Bytes: got %v", got)
	}
	if got := roundTrip[string](t, String{}, "héllo"); got != "héllo" {
		t.Fatalf("String: got %q", got)
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	c := Limit[string]{Inner: String{}, MaxDecode: 4}
	if _, err := c.Decode([]byte("12345")); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected too large error, got %v", err)
	}
	if v, err := c.Decode([]byte("1234")); err != nil || v != "1234" {
		t.Fatalf("boundary decode: v=%q err=%v", v, err)
	}

	unlimited := Limit[string]{Inner: String{}}
	if _, err := unlimited.Decode([]byte(strings.Repeat("x", 1<<16))); err != nil {
		t.Fatalf("MaxDecode<=0 should disable limit, got %v", err)
	}
}

func TestCBORRejectDupKeys(t *testing.T) {
	dup := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02} // {"a":1,"a":2}
	strict, err := NewCBORWith[map[string]int](CBOROptions{RejectDupKeys: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := strict.Decode(dup); err == nil {
		t.Fatal("expected duplicate key error")
	}
	if _, err := MustCBOR[map[string]int](false).Decode(dup); err != nil {
		t.Fatalf("lenient decode: %v", err)
	}
	if _, err := NewCBORWith[int](CBOROptions{MaxNestedLevels: 1}); err == nil {
		t.Fatal("expected invalid nesting limit to be rejected")
	}
}

func TestProtobufNilMessage(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	var nilMsg *wrapperspb.StringValue
	if _, err := c.Encode(nilMsg); !errors.Is(err, ErrNilMessage) {
		t.Fatalf("err = %v", err)
	}
}

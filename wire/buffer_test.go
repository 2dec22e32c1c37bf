package wire

import (
	"errors"
	"math"
	"testing"

	"github.com/go-quicktest/qt"
)

func writeOnce(f func(b *Buffer)) []byte {
	var b Buffer
	f(&b)
	return b.Bytes()
}

func TestWriteVarUint(t *testing.T) {
	cases := []struct {
		in   uint32
		want []byte
	}{
		{0, []byte{0}},
		{1, []byte{1}},
		{127, []byte{127}},
		{128, []byte{128, 1}},
		{129, []byte{129, 1}},
		{256, []byte{128, 2}},
		{257, []byte{129, 2}},
		{131069, []byte{253, 255, 7}},
		{131070, []byte{254, 255, 7}},
		{4294967293, []byte{253, 255, 255, 255, 15}},
		{4294967294, []byte{254, 255, 255, 255, 15}},
		{4294967295, []byte{255, 255, 255, 255, 15}},
	}
	for _, c := range cases {
		got := writeOnce(func(b *Buffer) { b.WriteVarUint(c.in) })
		qt.Check(t, qt.DeepEquals(got, c.want), qt.Commentf("value %d", c.in))

		v, err := NewBuffer(got).ReadVarUint()
		qt.Assert(t, qt.IsNil(err))
		qt.Check(t, qt.Equals(v, c.in))
	}
}

func TestWriteVarInt(t *testing.T) {
	cases := []struct {
		in   int32
		want []byte
	}{
		{0, []byte{0}},
		{-1, []byte{1}},
		{1, []byte{2}},
		{-2, []byte{3}},
		{2, []byte{4}},
		{-64, []byte{127}},
		{64, []byte{128, 1}},
		{128, []byte{128, 2}},
		{-129, []byte{129, 2}},
		{-65535, []byte{253, 255, 7}},
		{65535, []byte{254, 255, 7}},
		{-2147483647, []byte{253, 255, 255, 255, 15}},
		{2147483647, []byte{254, 255, 255, 255, 15}},
		{-2147483648, []byte{255, 255, 255, 255, 15}},
	}
	for _, c := range cases {
		got := writeOnce(func(b *Buffer) { b.WriteVarInt(c.in) })
		qt.Check(t, qt.DeepEquals(got, c.want), qt.Commentf("value %d", c.in))

		v, err := NewBuffer(got).ReadVarInt()
		qt.Assert(t, qt.IsNil(err))
		qt.Check(t, qt.Equals(v, c.in))
	}
}

func TestReadVarUintCapsAtFiveBytes(t *testing.T) {
	b := NewBuffer([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01})
	v, err := b.ReadVarUint()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(v, uint32(math.MaxUint32)))
	qt.Check(t, qt.Equals(b.Offset(), 5))
}

func TestReadVarUintTruncated(t *testing.T) {
	_, err := NewBuffer([]byte{0x80, 0x80}).ReadVarUint()
	qt.Assert(t, qt.ErrorIs(err, ErrOutOfBounds))
}

func TestWriteVarFloat(t *testing.T) {
	cases := []struct {
		in   float32
		want []byte
	}{
		{0, []byte{0}},
		{float32(math.Copysign(0, -1)), []byte{0}},
		{123.456, []byte{133, 242, 210, 237}},
		{-123.456, []byte{133, 243, 210, 237}},
		{-math.MaxFloat32, []byte{254, 255, 255, 255}},
		{math.MaxFloat32, []byte{254, 254, 255, 255}},
		{-1.1754943508222875e-38, []byte{1, 1, 0, 0}},
		{1.1754943508222875e-38, []byte{1, 0, 0, 0}},
		{float32(math.Inf(-1)), []byte{255, 1, 0, 0}},
		{float32(math.Inf(1)), []byte{255, 0, 0, 0}},
		{float32(math.NaN()), []byte{255, 0, 0, 128}},
		{1.0e-40, []byte{0}},
	}
	for _, c := range cases {
		got := writeOnce(func(b *Buffer) { b.WriteVarFloat(c.in) })
		qt.Check(t, qt.DeepEquals(got, c.want), qt.Commentf("value %v", c.in))
	}
}

func TestReadVarFloat(t *testing.T) {
	read := func(p ...byte) float32 {
		t.Helper()
		v, err := NewBuffer(p).ReadVarFloat()
		qt.Assert(t, qt.IsNil(err))
		return v
	}
	qt.Check(t, qt.Equals(read(0), float32(0)))
	qt.Check(t, qt.Equals(read(133, 242, 210, 237), float32(123.456)))
	qt.Check(t, qt.Equals(read(133, 243, 210, 237), float32(-123.456)))
	qt.Check(t, qt.Equals(read(254, 255, 255, 255), float32(-math.MaxFloat32)))
	qt.Check(t, qt.Equals(read(254, 254, 255, 255), float32(math.MaxFloat32)))
	qt.Check(t, qt.Equals(read(1, 1, 0, 0), float32(-1.1754943508222875e-38)))
	qt.Check(t, qt.Equals(read(1, 0, 0, 0), float32(1.1754943508222875e-38)))
	qt.Check(t, qt.IsTrue(math.IsInf(float64(read(255, 1, 0, 0)), -1)))
	qt.Check(t, qt.IsTrue(math.IsInf(float64(read(255, 0, 0, 0)), 1)))
	qt.Check(t, qt.IsTrue(math.IsNaN(float64(read(255, 0, 0, 128)))))

	_, err := NewBuffer(nil).ReadVarFloat()
	qt.Check(t, qt.ErrorIs(err, ErrOutOfBounds))
	_, err = NewBuffer([]byte{1, 2}).ReadVarFloat()
	qt.Check(t, qt.ErrorIs(err, ErrOutOfBounds))
}

func TestStrings(t *testing.T) {
	qt.Check(t, qt.DeepEquals(writeOnce(func(b *Buffer) { b.WriteString("") }), []byte{0}))
	qt.Check(t, qt.DeepEquals(writeOnce(func(b *Buffer) { b.WriteString("a") }), []byte{97, 0}))
	qt.Check(t, qt.DeepEquals(writeOnce(func(b *Buffer) { b.WriteString("abc") }), []byte{97, 98, 99, 0}))
	qt.Check(t, qt.DeepEquals(writeOnce(func(b *Buffer) { b.WriteString("🍕") }), []byte{240, 159, 141, 149, 0}))

	read := func(p ...byte) (string, error) { return NewBuffer(p).ReadString() }

	_, err := read()
	qt.Check(t, qt.ErrorIs(err, ErrOutOfBounds))
	_, err = read(97)
	qt.Check(t, qt.ErrorIs(err, ErrOutOfBounds))

	s, err := read(0)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(s, ""))
	s, _ = read(97, 98, 99, 0)
	qt.Check(t, qt.Equals(s, "abc"))
	s, _ = read(240, 159, 141, 149, 0)
	qt.Check(t, qt.Equals(s, "🍕"))
	// Invalid UTF-8 passes through byte for byte.
	s, _ = read(97, 237, 160, 188, 99, 0)
	qt.Check(t, qt.Equals(s, "a\xed\xa0\xbcc"))
}

func TestBoolAndByte(t *testing.T) {
	qt.Check(t, qt.DeepEquals(writeOnce(func(b *Buffer) { b.WriteBool(false) }), []byte{0}))
	qt.Check(t, qt.DeepEquals(writeOnce(func(b *Buffer) { b.WriteBool(true) }), []byte{1}))
	for _, c := range []byte{0, 1, 254, 255} {
		qt.Check(t, qt.DeepEquals(writeOnce(func(b *Buffer) { _ = b.WriteByte(c) }), []byte{c}))
	}

	b := NewBuffer([]byte{0, 1, 2, 255})
	for _, want := range []bool{false, true, false, false} {
		got, err := b.ReadBool()
		qt.Assert(t, qt.IsNil(err))
		qt.Check(t, qt.Equals(got, want))
	}
	_, err := b.ReadBool()
	qt.Check(t, qt.ErrorIs(err, ErrOutOfBounds))
}

func TestByteArray(t *testing.T) {
	got := writeOnce(func(b *Buffer) { b.WriteByteArray([]byte{9, 8, 7}) })
	qt.Assert(t, qt.DeepEquals(got, []byte{3, 9, 8, 7}))

	b := NewBuffer(got)
	p, err := b.ReadByteArray()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(p, []byte{9, 8, 7}))
	qt.Check(t, qt.Equals(b.Remaining(), 0))

	_, err = NewBuffer([]byte{4, 1, 2}).ReadByteArray()
	qt.Check(t, qt.ErrorIs(err, ErrOutOfBounds))
}

func TestReadBytes(t *testing.T) {
	b := NewBuffer([]byte{1, 2, 3})
	p, err := b.ReadBytes(2)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(p, []byte{1, 2}))
	_, err = b.ReadBytes(2)
	qt.Check(t, qt.IsTrue(errors.Is(err, ErrOutOfBounds)))
	qt.Check(t, qt.Equals(b.Offset(), 2))
}

func TestWriteSequence(t *testing.T) {
	var b Buffer
	b.WriteVarFloat(0)
	b.WriteVarFloat(123.456)
	b.WriteString("🍕")
	b.WriteVarUint(123456789)
	qt.Check(t, qt.DeepEquals(b.Bytes(), []byte{0, 133, 242, 210, 237, 240, 159, 141, 149, 0, 149, 154, 239, 58}))
}

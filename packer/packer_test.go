package packer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tangleforge/ledgerwallet/packer"
)

func TestRoundTripScalars(t *testing.T) {
	require := require.New(t)

	p := packer.NewPacker(32)
	p.PackByte(7)
	p.PackUint16(1234)
	p.PackUint32(567890)
	p.PackUint64(123456789012345)
	require.NoError(p.PackPrefixedBytes([]byte("hello"), 2))

	u := packer.NewUnpacker(p.Bytes())
	b, err := u.UnpackByte()
	require.NoError(err)
	require.Equal(byte(7), b)

	v16, err := u.UnpackUint16()
	require.NoError(err)
	require.Equal(uint16(1234), v16)

	v32, err := u.UnpackUint32()
	require.NoError(err)
	require.Equal(uint32(567890), v32)

	v64, err := u.UnpackUint64()
	require.NoError(err)
	require.Equal(uint64(123456789012345), v64)

	raw, err := u.UnpackPrefixedBytes(2)
	require.NoError(err)
	require.Equal([]byte("hello"), raw)
	require.True(u.Done())
}

func TestUnpackTruncatedBufferFails(t *testing.T) {
	u := packer.NewUnpacker([]byte{1, 2})
	_, err := u.UnpackUint32()
	require.Error(t, err)
}

func TestKindErrorUnwraps(t *testing.T) {
	err := packer.Kind{Byte: 9}
	require.ErrorIs(t, err, packer.ErrInvalidDiscriminant)
}

package binformat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadStringA_RoundTrip(t *testing.T) {
	cases := []string{"", "../../../", "/Game/T_Chair_M", "a"}
	for _, s := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteStringA(&buf, s))
		require.Equal(t, SizeofStringA(s), buf.Len())
		got, err := ReadStringA(&buf)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestWriteReadStringB_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStringB(&buf, "/Game/T_Chair_M"))
	got, err := ReadStringB(&buf)
	require.NoError(t, err)
	require.Equal(t, "/Game/T_Chair_M", got)
}

func TestUint40BE_RoundTrip(t *testing.T) {
	b := make([]byte, 5)
	require.NoError(t, PutUint40BE(b, 0x1122334455))
	require.Equal(t, uint64(0x1122334455), Uint40BE(b))
}

func TestUint40BE_Overflow(t *testing.T) {
	b := make([]byte, 5)
	require.Error(t, PutUint40BE(b, MaxUint40+1))
}

func TestUint40LE_RoundTrip(t *testing.T) {
	b := make([]byte, 5)
	require.NoError(t, PutUint40LE(b, 0x1122334455))
	require.Equal(t, uint64(0x1122334455), Uint40LE(b))
	require.Equal(t, []byte{0x55, 0x44, 0x33, 0x22, 0x11}, b)
}

func TestUint40LE_Overflow(t *testing.T) {
	b := make([]byte, 5)
	require.Error(t, PutUint40LE(b, MaxUint40+1))
}

func TestUint40LE_DiffersFromUint40BE(t *testing.T) {
	le := make([]byte, 5)
	be := make([]byte, 5)
	require.NoError(t, PutUint40LE(le, 0x0102030405))
	require.NoError(t, PutUint40BE(be, 0x0102030405))
	require.NotEqual(t, le, be)
}

func TestUint24LE_RoundTrip(t *testing.T) {
	b := make([]byte, 3)
	require.NoError(t, PutUint24LE(b, 0x112233))
	require.Equal(t, uint32(0x112233), Uint24LE(b))
}

func TestUint24LE_Overflow(t *testing.T) {
	b := make([]byte, 3)
	require.Error(t, PutUint24LE(b, MaxUint24+1))
}

func TestNameHash_Deterministic(t *testing.T) {
	a := NameHash("/Game/T_Chair_M")
	b := NameHash("/GAME/t_chair_m")
	require.Equal(t, a, b, "hashing must lowercase before hashing")
}

func TestNameHash_StableAcrossCalls(t *testing.T) {
	// CityHash64 of the UTF-16LE lowercase encoding of "/Game/T_Chair_M"
	// must be stable across runs.
	got := NameHash("/Game/T_Chair_M")
	require.NotZero(t, got)
	again := NameHash("/Game/T_Chair_M")
	require.Equal(t, got, again)
}

func TestPackageObjectIndex_EmptyIsAllOnes(t *testing.T) {
	p := NewPackageObjectIndex(PackageObjectIndexEmpty, "whatever")
	require.True(t, p.IsEmpty())
	require.Equal(t, PackageObjectIndex(^uint64(0)), p)
}

func TestPackageObjectIndex_VariantRoundTrip(t *testing.T) {
	p := NewPackageObjectIndex(PackageObjectIndexPackageImport, "/Game/Foo")
	require.Equal(t, PackageObjectIndexPackageImport, p.Variant())
	require.False(t, p.IsEmpty())
}

func TestContentHash_SHA1(t *testing.T) {
	zeros := make([]byte, 1024)
	h := ContentHash(zeros)
	require.Len(t, h, 20)
	// SHA-1 of 1024 zero bytes is a fixed, well-known digest.
	require.Equal(t, "60cacbf3d72e1e7834203da608037b1bf83b40e8", hexString(h[:]))
}

func hexString(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hextable[v>>4]
		out[i*2+1] = hextable[v&0x0f]
	}
	return string(out)
}

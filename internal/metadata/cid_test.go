package metadata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ken19931113/debook/internal/domain"
)

func TestComputeCID_Shape(t *testing.T) {
	cid := ComputeCID([]byte(`{"name":"Loft"}`))

	assert.True(t, strings.HasPrefix(cid, "Qm"), "cid %s", cid)
	assert.Len(t, cid, 46)
	assert.NoError(t, ValidateCID(cid))
	assert.True(t, VerifyCID(cid, []byte(`{"name":"Loft"}`)))
	assert.False(t, VerifyCID(cid, []byte(`{"name":"Loft2"}`)))
}

func TestValidateCID_Rejects(t *testing.T) {
	assert.Error(t, ValidateCID(""))
	assert.Error(t, ValidateCID("0OIl"))                   // not base58
	assert.Error(t, ValidateCID("3mJr7AoUXx2Wqd"))         // wrong length
	assert.Error(t, ValidateCID("bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"))
}

func TestEncode_Canonical(t *testing.T) {
	a, err := Encode(domain.Metadata{"b": 1, "a": "x<y"})
	require.NoError(t, err)
	b, err := Encode(domain.Metadata{"a": "x<y", "b": 1})
	require.NoError(t, err)

	assert.Equal(t, `{"a":"x<y","b":1}`, string(a))
	assert.Equal(t, ComputeCID(a), ComputeCID(b))
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(`{"name":"Loft","rooms":2}`))
	require.NoError(t, err)
	assert.Equal(t, "Loft", doc["name"])

	_, err = Decode([]byte(`null`))
	assert.Error(t, err)

	_, err = Decode([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestParseLocator(t *testing.T) {
	loc, err := ParseLocator("IPFS://QmHash/")
	require.NoError(t, err)
	assert.Equal(t, "ipfs", loc.Scheme)
	assert.Equal(t, "QmHash", loc.Hash)
	assert.Equal(t, "ipfs://QmHash", loc.String())

	for _, bad := range []string{"", "QmHash", "ipfs://", "://QmHash"} {
		_, err := ParseLocator(bad)
		assert.ErrorIs(t, err, ErrUnresolvable, bad)
	}
}

// internal/nodeid/address_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        *Address
		expectedStr string
	}{
		{
			name: "absolute path",
			addr: &Address{
				Absolute: true,
				Path:     []PathSegment{NewPathSegment("Materials"), NewPathSegment("Wood")},
			},
			expectedStr: "/Materials/Wood",
		},
		{
			name: "relative path",
			addr: &Address{
				Path: []PathSegment{NewPathSegment("NodeGraph"), NewPathSegment("image1")},
			},
			expectedStr: "NodeGraph/image1",
		},
		{
			name:        "nil address",
			addr:        nil,
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	testIDs := []string{
		"/Materials/Wood/NodeGraph/image1",
		"image1",
		"NodeGraph/ND_image_color3",
	}

	for _, id := range testIDs {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)

			roundTripID := addr.String()
			assert.Equal(t, id, roundTripID)

			roundTripAddr, err := Parse(roundTripID)
			require.NoError(t, err)
			assert.True(t, addr.Equal(roundTripAddr))
		})
	}
}

func mustParse(t *testing.T, rawID string) *Address {
	t.Helper()
	addr, err := Parse(rawID)
	require.NoError(t, err)
	return addr
}

func TestAddress_Equal(t *testing.T) {
	addr1 := mustParse(t, "/a/b")
	addr2 := mustParse(t, "/a/b")
	addr3 := mustParse(t, "a/b")
	addr4 := mustParse(t, "/a/c")

	assert.True(t, addr1.Equal(addr2))
	assert.False(t, addr1.Equal(addr3))
	assert.False(t, addr1.Equal(addr4))
	assert.False(t, addr1.Equal(nil))
	assert.False(t, (*Address)(nil).Equal(addr1))
	assert.True(t, (*Address)(nil).Equal(nil))
}

func TestAddress_Segments(t *testing.T) {
	addr := mustParse(t, "/Materials/Wood/NodeGraph/image1")

	assert.Equal(t, "image1", addr.Name())
	assert.Equal(t, "NodeGraph", addr.ParentName())
	assert.Equal(t, "/Materials/Wood/NodeGraph", addr.Parent().String())

	single := mustParse(t, "image1")
	assert.Nil(t, single.Parent())
	assert.Equal(t, "", single.ParentName())

	container, node := Split("/Materials/Wood/NodeGraph/image1")
	assert.Equal(t, "NodeGraph", container)
	assert.Equal(t, "image1", node)

	container, node = Split("not//valid")
	assert.Equal(t, "", container)
	assert.Equal(t, "not//valid", node)
}

package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageContentType(t *testing.T) {
	ct, err := ImageContentType("ella.JPG", "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	ct, err = ImageContentType("blob", "image/png; charset=binary")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, err = ImageContentType("notes.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestObjectPathAndPublicURL(t *testing.T) {
	p := ObjectPath("V1", "image/webp")
	assert.True(t, strings.HasPrefix(p, "packages/V1/"))
	assert.True(t, strings.HasSuffix(p, ".webp"))

	u := PublicURL("arone.appspot.com", "packages/V1/a.jpg")
	assert.Equal(t, "https://firebasestorage.googleapis.com/v0/b/arone.appspot.com/o/packages%2FV1%2Fa.jpg?alt=media", u)
}

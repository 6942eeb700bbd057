package helpers

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatarObjectPath(t *testing.T) {
	p := AvatarObjectPath(42, "Me.PNG")
	assert.Regexp(t, regexp.MustCompile(`^avatars/42/[0-9a-f-]{36}\.png$`), p)
}

func TestObjectPathFromURL(t *testing.T) {
	url := PublicURL("media", "avatars/1/x.png")
	assert.Equal(t, "https://storage.googleapis.com/media/avatars/1/x.png", url)

	obj, ok := ObjectPathFromURL("media", url)
	assert.True(t, ok)
	assert.Equal(t, "avatars/1/x.png", obj)

	_, ok = ObjectPathFromURL("other", url)
	assert.False(t, ok)
	_, ok = ObjectPathFromURL("media", "")
	assert.False(t, ok)
}

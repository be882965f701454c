package s3_test

import (
	"rento/infras/s3"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.rento.app/items/a.png", s3.PublicURL("https://cdn.rento.app", "items/a.png"))
	assert.Equal(t, "https://cdn.rento.app/items/a.png", s3.PublicURL("https://cdn.rento.app/", "/items/a.png"))
}

func TestObjectPath(t *testing.T) {
	assert.Equal(t, "items/a.png", s3.ObjectPath("https://cdn.rento.app", "https://cdn.rento.app/items/a.png"))
	assert.Empty(t, s3.ObjectPath("https://cdn.rento.app", "https://elsewhere.example/items/a.png"))
}

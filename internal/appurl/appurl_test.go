package appurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramed(t *testing.T) {
	assert.Equal(t, "https://apps.paw.digital/swap?framed", Framed("https://apps.paw.digital/swap"))
	assert.Equal(t, "https://apps.paw.digital/swap?a=1&framed", Framed("https://apps.paw.digital/swap?a=1"))
}

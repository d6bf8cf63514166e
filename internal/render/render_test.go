package render

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestNopRenderer(t *testing.T) {
	var r Renderer = Nop{}

	err := r.RenderPDF(context.Background(), "https://rowan.edu/staff-directory", "/tmp/out.pdf")
	assert.True(t, eris.Is(err, ErrUnavailable))
	assert.NoError(t, r.Close())
}

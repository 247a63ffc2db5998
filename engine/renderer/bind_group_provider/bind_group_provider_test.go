package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderIsEmpty(t *testing.T) {
	p := NewBindGroupProvider("cube#1 group 2")
	assert.Equal(t, "cube#1 group 2", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())

	p.SetIndexCount(36)
	assert.Equal(t, 36, p.IndexCount())

	// releasing a provider that never got GPU objects is a no-op
	p.Release()
	assert.Nil(t, p.BindGroup())
}

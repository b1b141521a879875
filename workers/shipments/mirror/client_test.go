package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeFormulaValue(t *testing.T) {
	assert.Equal(t, `plain@example.com`, escapeFormulaValue("plain@example.com"))
	assert.Equal(t, `a\"b@example.com`, escapeFormulaValue(`a"b@example.com`))
	assert.Equal(t, `a\\\"b`, escapeFormulaValue(`a\"b`))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("62999990000"))
	assert.True(t, ValidatePhone("+55 62 99999-0000"))
	assert.True(t, ValidatePhone("(62) 99999-0000"))

	assert.False(t, ValidatePhone(""))
	assert.False(t, ValidatePhone("abc"))
	assert.False(t, ValidatePhone("0000000000000000000"))
}

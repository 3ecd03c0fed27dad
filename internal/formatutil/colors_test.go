package formatutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColor(t *testing.T) {
	defer func(enabled bool) { Enabled = enabled }(Enabled)

	Enabled = false
	assert.Equal(t, "sweeps 3", Bold("sweeps ", 3))
	assert.Equal(t, "converged", Status(true, "converged"))

	Enabled = true
	assert.Equal(t, "\033[1msweeps 3\033[0m", Bold("sweeps ", 3))
	assert.Equal(t, "\033[1;32mok\033[0m", Status(true, "ok"))
	assert.Equal(t, "\033[1;33mcapped\033[0m", Status(false, "capped"))
	assert.Equal(t, "\033[1;31mx\033[0m", Red("x"))
}

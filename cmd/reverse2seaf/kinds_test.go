package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsCommand(t *testing.T) {
	stdout, _, err := execute(t, "kinds")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 20)
	assert.True(t, strings.HasPrefix(lines[0], "dc_region"))
	assert.Contains(t, lines[0], "(derived)")
	assert.Contains(t, lines[5], "seaf.ta.reverse.cloud_ru.advanced.vpcs")
	assert.True(t, strings.HasPrefix(lines[19], "elbs"))
}

func TestKindsRejectsArguments(t *testing.T) {
	_, _, err := execute(t, "kinds", "extra")
	assert.Error(t, err)
}

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePassword(t *testing.T) {
	prompted := 0
	prompt := func() (string, error) {
		prompted++

		return "typed", nil
	}

	got, err := resolvePassword("flag", "env", prompt)
	require.NoError(t, err)
	assert.Equal(t, "flag", got)

	got, err = resolvePassword("", "env", prompt)
	require.NoError(t, err)
	assert.Equal(t, "env", got)

	assert.Zero(t, prompted, "no prompt when a password is given")

	got, err = resolvePassword("", "", prompt)
	require.NoError(t, err)
	assert.Equal(t, "typed", got)
	assert.Equal(t, 1, prompted)
}

func TestResolvePassword_NoSource(t *testing.T) {
	_, err := resolvePassword("", "", nil)
	require.ErrorIs(t, err, errNoPassword)

	promptErr := errors.New("tty gone")
	_, err = resolvePassword("", "", func() (string, error) { return "", promptErr })
	require.ErrorIs(t, err, promptErr)
}

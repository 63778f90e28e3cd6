package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/tonimelisma/spreport/internal/config"
)

var errNoPassword = errors.New("no password: pass --password, set " + config.EnvPassword +
	", or run on a terminal to be prompted")

// resolvePassword picks the account password: the flag first, then the
// environment, then an interactive prompt.
func resolvePassword(flagValue, envValue string, prompt func() (string, error)) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if envValue != "" {
		return envValue, nil
	}

	if prompt == nil {
		return "", errNoPassword
	}

	return prompt()
}

// promptPassword reads a password from the terminal with echo disabled.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoPassword
	}

	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if len(b) == 0 {
		return "", errNoPassword
	}

	return string(b), nil
}

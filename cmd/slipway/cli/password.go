// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/slipway-systems/slipway/lib/secret"
)

// ReadPassword obtains a password for login. When passwordFile is set
// it is read from that path ("-" for stdin); otherwise the user is
// prompted on the terminal with echo disabled. The returned buffer
// must be closed by the caller.
func ReadPassword(passwordFile, prompt string) (*secret.Buffer, error) {
	if passwordFile != "" {
		buffer, err := secret.ReadFromPath(passwordFile)
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		return buffer, nil
	}
	return promptPassword(prompt)
}

func promptPassword(prompt string) (*secret.Buffer, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal; use --password-file (or - for stdin)")
	}

	fmt.Fprint(os.Stderr, prompt)
	line, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if len(line) == 0 {
		secret.Zero(line)
		return nil, fmt.Errorf("password is empty")
	}

	// NewFromBytes zeros line after copying it into locked memory.
	buffer, err := secret.NewFromBytes(line)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}

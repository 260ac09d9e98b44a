// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

// Command hashadmin produces a bcrypt hash for the ADMIN_PASSWORD_HASH
// environment variable.
//
// Usage:
//
//	hashadmin <password>
package main

import (
	"fmt"
	"os"

	"github.com/dvukelic/kavomjer/internal/platform/sec"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashadmin <password>")
		os.Exit(2)
	}

	hash, err := sec.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "hashadmin:", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}

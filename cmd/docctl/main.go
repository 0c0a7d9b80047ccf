package main

import (
	"errors"
	"fmt"
	"os"

	"docmanager-backend/internal/client"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, client.ErrLoginRequired) {
			fmt.Fprintln(os.Stderr, "not logged in (or session expired); run: docctl login")
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

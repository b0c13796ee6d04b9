// Package main is the entry point for the widgetd application.
package main

import (
	"os"

	"github.com/jmylchreest/widgetd/cmd/widgetd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

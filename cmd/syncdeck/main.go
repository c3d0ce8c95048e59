// Package main implements the syncdeck CLI tool.
// It provides commands for watching sync workers and their reachability in real time.
package main

import "github.com/syncdeck/syncdeck/cmd/syncdeck/cmd"

func main() {
	cmd.Execute()
}

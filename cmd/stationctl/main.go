// Package main is the entry point for stationctl.
package main

import "stationdesk/internal/cli"

func main() {
	cli.Execute()
}

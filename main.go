// Package main is the entry point for the csmapstats CLI, which summarizes
// professional CS2 match and map results over a trailing window.
package main

import "github.com/pable/go-cs-mapstats/cmd"

func main() {
	cmd.Execute()
}

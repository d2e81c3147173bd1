// Package main provides the tides command: the HTTP server and a CLI for
// one-off predictions.
package main

func main() {
	Execute()
}

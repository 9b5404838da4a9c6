// Package main is entrypoint for the application
package main

import "sfu/cmd"

func main() {
	cmd.Run()
}

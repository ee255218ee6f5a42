package main

import "github.com/skycler/swe2d/cmd"

func main() {
	cmd.Execute()
}

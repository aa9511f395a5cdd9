package main

import "github.com/strangelove-ventures/omnibridge-engine/cmd"

func main() {
	cmd.Execute()
}

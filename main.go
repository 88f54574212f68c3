package main

import "github.com/TellusGreen/forestlens-cli/cmd"

func main() {
	cmd.Execute()
}

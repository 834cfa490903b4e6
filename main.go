package main

import "arxdex/cmd"

func main() {
	cmd.Execute()
}

package main

import "tesim/cmd/tesim/cmd"

func main() {
	cmd.Execute()
}

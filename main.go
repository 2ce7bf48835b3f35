package main

import "github.com/notargets/realgas/cmd"

func main() {
	cmd.Execute()
}

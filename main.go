package main

import "github.com/notargets/hlsfem/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/itsmostafa/gostep/cmd"

func main() {
	cmd.Execute()
}

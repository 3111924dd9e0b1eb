package main

import "github.com/ArnaudCalmettes/equalizer/cmd"

func main() {
	cmd.Execute()
}

package main

import "tidy/cmd"

func main() {
	cmd.Execute()
}

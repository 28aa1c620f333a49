package main

import "github.com/RyanBlaney/mood-analyzer/cmd"

func main() {
	cmd.Execute()
}

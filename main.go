package main

import "thoreinstein.com/seek/cmd"

func main() {
	cmd.Execute()
}

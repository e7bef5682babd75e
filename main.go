package main

import "github.com/KaramelBytes/radar-cli/cmd"

func main() {
	cmd.Execute()
}

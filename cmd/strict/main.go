package main

import "github.com/deepnoodle-ai/strict/cmd/strict/cli"

func main() {
	cli.Execute()
}

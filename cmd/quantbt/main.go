package main

import "quantbt/internal/cli"

func main() {
	cli.Execute()
}

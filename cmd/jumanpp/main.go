package main

import "jumanpp/internal/cli"

func main() {
	cli.Execute()
}

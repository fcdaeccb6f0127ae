package main

import "pcreator/internal/cli"

func main() {
	cli.Execute()
}

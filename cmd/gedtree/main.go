package main

import "github.com/dgallion1/gedgest/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/alignedworks/cvx/internal/cli"

func main() {
	cli.Execute()
}

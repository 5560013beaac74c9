package main

import "github.com/rawbytedev/memkit/internal/cli"

func main() {
	cli.Execute()
}

package main

import "apt-resolve/internal/cli"

func main() {
	cli.Execute()
}

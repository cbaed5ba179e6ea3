package main

import "github.com/akolanti/ContractAPI/internal/cli"

func main() {
	cli.Execute()
}

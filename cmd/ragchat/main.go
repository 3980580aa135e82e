package main

import (
	"github.com/custodia-labs/ragchat/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}

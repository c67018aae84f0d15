package main

import (
	"github.com/superawesomeme/La-Palabra-Negra/internal/cli"
)

func main() {
	cli.Execute()
}

package main

import (
	"os"

	"github.com/PhuocNG0308/stake-and-steal-sub001/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

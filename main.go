package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/kilianp07/evswap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "evswap:", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/huykingsofm/hyperad"
)

func main() {
	if err := hyperad.Main(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// Command tilepath finds paths on weight matrix files, plans cooperative
// multi-agent moves and generates terrain matrices.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

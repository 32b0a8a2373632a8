// Command mcp-eda serves exploratory data analysis prompts and file
// inspection tools over the Model Context Protocol.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/d60-Lab/yatube/internal/cli"
)

// @title Yatube API
// @version 1.0
// @description Blog platform: posts, groups, comments and author subscriptions.
// @BasePath /
func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag       string
	communityFlag string
	rootCmd       = &cobra.Command{
		Use:   "reviewctl",
		Short: "CLI client for the review service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Review service base URL")
	rootCmd.PersistentFlags().StringVarP(&communityFlag, "community", "c", "", "Community ID (required for review operations)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

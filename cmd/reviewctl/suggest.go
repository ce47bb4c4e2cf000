package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var limit int
	suggestCmd := &cobra.Command{
		Use:   "suggest QUERY",
		Short: "Autocomplete titles from the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := ""
			if len(args) == 1 {
				q = args[0]
			}
			u := fmt.Sprintf("%s/api/suggest?q=%s&limit=%d", apiFlag, url.QueryEscape(q), limit)
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	suggestCmd.Flags().IntVarP(&limit, "limit", "l", 5, "Maximum suggestions")
	rootCmd.AddCommand(suggestCmd)

	catalogCmd := &cobra.Command{
		Use:   "catalog CANONICAL_ID",
		Short: "Fetch one catalog record by canonical id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/catalog/%s", apiFlag, url.PathEscape(args[0])))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(catalogCmd)
}

package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	reviewsCmd := &cobra.Command{Use: "reviews", Short: "Review operations"}

	// submit
	var userId, userName, canonicalId, title string
	var score int
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit or replace a rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			if communityFlag == "" {
				return fmt.Errorf("--community required")
			}
			payload := map[string]interface{}{
				"userId":        userId,
				"canonicalId":   canonicalId,
				"titleSnapshot": title,
				"score":         score,
			}
			if userName != "" {
				payload["userDisplayName"] = userName
			}
			u := fmt.Sprintf("%s/api/communities/%s/reviews", apiFlag, communityFlag)
			data, err := doPostJSON(u, payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	submitCmd.Flags().StringVarP(&userId, "user", "u", "", "User ID (required)")
	submitCmd.Flags().StringVarP(&userName, "name", "n", "", "User display name")
	submitCmd.Flags().StringVarP(&canonicalId, "id", "i", "", "Canonical title ID (required)")
	submitCmd.Flags().StringVarP(&title, "title", "t", "", "Title snapshot (required)")
	submitCmd.Flags().IntVarP(&score, "score", "s", 0, "Score 1-10 (required)")
	_ = submitCmd.MarkFlagRequired("user")
	_ = submitCmd.MarkFlagRequired("id")
	_ = submitCmd.MarkFlagRequired("title")
	_ = submitCmd.MarkFlagRequired("score")
	reviewsCmd.AddCommand(submitCmd)

	// titles
	titlesCmd := &cobra.Command{
		Use:   "titles",
		Short: "List reviewed titles with aggregates and metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			if communityFlag == "" {
				return fmt.Errorf("--community required")
			}
			u := fmt.Sprintf("%s/api/communities/%s/titles", apiFlag, communityFlag)
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	reviewsCmd.AddCommand(titlesCmd)

	// top
	var topLimit int
	topCmd := &cobra.Command{
		Use:   "top",
		Short: "Show top-rated titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if communityFlag == "" {
				return fmt.Errorf("--community required")
			}
			u := fmt.Sprintf("%s/api/communities/%s/titles/top?limit=%d", apiFlag, communityFlag, topLimit)
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	topCmd.Flags().IntVarP(&topLimit, "limit", "l", 10, "Number of titles to return")
	reviewsCmd.AddCommand(topCmd)

	// detail
	detailCmd := &cobra.Command{
		Use:   "detail TITLE",
		Short: "Show one title's reviews and metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if communityFlag == "" {
				return fmt.Errorf("--community required")
			}
			u := fmt.Sprintf("%s/api/communities/%s/title-detail?title=%s", apiFlag, communityFlag, url.QueryEscape(args[0]))
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	reviewsCmd.AddCommand(detailCmd)

	rootCmd.AddCommand(reviewsCmd)
}

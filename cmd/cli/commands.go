package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	tournament string
	gender     string
	live       bool
	dryRun     bool
	query      string
)

func init() {
	rankingsCmd.Flags().StringVar(&tournament, "tournament", "", "Tournament id (empty for the overall leaderboard)")
	rankingsCmd.Flags().StringVar(&gender, "gender", "", "Filter by gender: Male or Female")
	rankingsCmd.Flags().BoolVar(&live, "live", false, "Recompute from matches instead of reading the leaderboard table")

	rebuildCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log what would be finalized without writing")

	membersCmd.Flags().StringVarP(&query, "search", "s", "", "Fuzzy search members by name")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(verifyCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List or search the members of the club",
	RunE: func(cmd *cobra.Command, args []string) error {
		if query != "" {
			return performRequest(http.MethodGet, "/api/members/search", url.Values{"q": {query}})
		}
		return performRequest(http.MethodGet, "/api/members", nil)
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the overall or a tournament leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if tournament != "" {
			params.Set("tournament", tournament)
		}
		if gender != "" {
			params.Set("gender", gender)
		}
		if live {
			params.Set("source", "live")
		}
		return performRequest(http.MethodGet, "/api/rankings", params)
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute member counters and leaderboard tables from the match history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/admin/rebuild", dryRunParams())
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Finalize scheduled matches that already have decided scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/admin/process", dryRunParams())
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <tournament-id>",
	Short: "Compare a tournament's leaderboard table with its matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/tournaments/"+url.PathEscape(args[0])+"/verify", nil)
	},
}

func dryRunParams() url.Values {
	if !dryRun {
		return nil
	}
	return url.Values{"dry_run": {"true"}}
}

func performRequest(method, endpoint string, params url.Values) error {
	target := host + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	fmt.Printf("Making request to %s %s\n", method, target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(prettyJSON(body))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server answered %s", resp.Status)
	}
	return nil
}

// prettyJSON indents JSON bodies and leaves anything else untouched.
func prettyJSON(body []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return string(body)
	}
	return out.String()
}

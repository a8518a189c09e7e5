package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "partybook-cli",
		Short: "Partybook CLI tool",
		Long:  `A command line interface for interacting with the Partybook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Partybook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(partyCommand())
	rootCmd.AddCommand(entryCommand())
	rootCmd.AddCommand(recalcCommand())
	rootCmd.AddCommand(checkCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func partyCommand() *cobra.Command {
	partyCmd := &cobra.Command{
		Use:   "party",
		Short: "Party operations",
	}

	var name, phone, partyType string

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a party",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/parties", map[string]string{
				"name":  name,
				"phone": phone,
				"type":  partyType,
			})
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "Party name")
	addCmd.Flags().StringVar(&phone, "phone", "", "Party phone")
	addCmd.Flags().StringVar(&partyType, "type", "customer", "Party type (customer or supplier)")
	addCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List parties",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/parties", nil)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a party",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/parties/"+args[0], nil)
		},
	}

	var query string

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search parties by name or phone",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/parties/search?q="+query, nil)
		},
	}
	searchCmd.Flags().StringVar(&query, "q", "", "Search query")
	searchCmd.MarkFlagRequired("q")

	partyCmd.AddCommand(addCmd, listCmd, getCmd, searchCmd)

	return partyCmd
}

func entryCommand() *cobra.Command {
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Entry operations",
	}

	var (
		partyID   int64
		direction string
		amount    string
		date      string
		note      string
	)

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry to a party's ledger",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/parties/" + strconv.FormatInt(partyID, 10) + "/entries"
			doRequest(http.MethodPost, path, map[string]string{
				"direction": direction,
				"amount":    amount,
				"date":      date,
				"note":      note,
			})
		},
	}
	addCmd.Flags().Int64Var(&partyID, "party", 0, "Party ID")
	addCmd.Flags().StringVar(&direction, "direction", "", "Entry direction (credit or debit)")
	addCmd.Flags().StringVar(&amount, "amount", "", "Entry amount")
	addCmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "Entry date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&note, "note", "", "Optional note")
	addCmd.MarkFlagRequired("party")
	addCmd.MarkFlagRequired("direction")
	addCmd.MarkFlagRequired("amount")

	listCmd := &cobra.Command{
		Use:   "list <party-id>",
		Short: "List a party's entries",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/parties/"+args[0]+"/entries", nil)
		},
	}

	entryCmd.AddCommand(addCmd, listCmd)

	return entryCmd
}

func recalcCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc <party-id>",
		Short: "Recalculate a party's balances",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/parties/"+args[0]+"/recalculate", nil)
		},
	}
}

func checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <party-id>",
		Short: "Check a party's ledger consistency",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/parties/"+args[0]+"/consistency", nil)
		},
	}
}

func doRequest(method, path string, payload any) {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	printJSON(raw)
}

func printJSON(raw []byte) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}

	fmt.Println(pretty.String())
}

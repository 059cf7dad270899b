package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "txnstream-cli",
		Short: "txnstream CLI tool",
		Long:  `A command line interface for interacting with the txnstream ingestion API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the txnstream API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(submitCmd())
	rootCmd.AddCommand(getCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func submitCmd() *cobra.Command {
	var (
		account     string
		amount      string
		currency    string
		merchant    string
		category    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := buildSubmitBody(account, amount, currency, merchant, category, description)
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: timeout}
			resp, err := client.Post(baseURL+"/api/v1/transactions", "application/json", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			payload, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusAccepted {
				return fmt.Errorf("submission rejected (status %d): %s", resp.StatusCode, string(payload))
			}

			var result map[string]any
			if err := json.Unmarshal(payload, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account identifier")
	cmd.Flags().StringVar(&amount, "amount", "", "Transaction amount")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code")
	cmd.Flags().StringVar(&merchant, "merchant", "", "Merchant name")
	cmd.Flags().StringVar(&category, "category", "", "Merchant category")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")

	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a transaction by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}
			resp, err := client.Get(baseURL + "/api/v1/transactions/" + args[0])
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			payload, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("lookup failed (status %d): %s", resp.StatusCode, string(payload))
			}

			var result map[string]any
			if err := json.Unmarshal(payload, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(result)
			return nil
		},
	}
}

// buildSubmitBody assembles the submission payload, parsing the amount
// locally so an unparseable value fails before the request is made.
func buildSubmitBody(account, amount, currency, merchant, category, description string) ([]byte, error) {
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	payload := map[string]any{
		"account":  account,
		"amount":   parsed,
		"currency": currency,
	}
	if merchant != "" {
		payload["merchant"] = merchant
	}
	if category != "" {
		payload["category"] = category
	}
	if description != "" {
		payload["description"] = description
	}

	return json.Marshal(payload)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

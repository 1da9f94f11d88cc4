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

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dealerdesk-cli",
		Short: "DealerDesk CLI tool",
		Long:  `A command line interface for the DealerDesk dealership backend.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the DealerDesk API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(taxCmd(), gstinCmd(), cleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func taxCmd() *cobra.Command {
	var (
		taxable     string
		rate        string
		sellerState string
		buyerState  string
	)

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Tax operations",
	}

	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the GST split for a taxable amount, offline",
		Run: func(cmd *cobra.Command, args []string) {
			amount, err := decimal.NewFromString(taxable)
			if err != nil {
				fmt.Printf("Invalid taxable amount: %v\n", err)
				os.Exit(1)
			}
			ratePercent, err := decimal.NewFromString(rate)
			if err != nil {
				fmt.Printf("Invalid rate: %v\n", err)
				os.Exit(1)
			}

			var buyer *string
			if buyerState != "" {
				buyer = &buyerState
			}

			split := domain.ComputeGST(amount, ratePercent, buyer, sellerState)

			fmt.Printf("Taxable:     %s\n", amount.StringFixed(2))
			fmt.Printf("CGST:        %s\n", split.CGST.StringFixed(2))
			fmt.Printf("SGST:        %s\n", split.SGST.StringFixed(2))
			fmt.Printf("IGST:        %s\n", split.IGST.StringFixed(2))
			fmt.Printf("Total tax:   %s\n", split.TotalTax.StringFixed(2))
			fmt.Printf("Grand total: %s\n", split.GrandTotal.StringFixed(2))
		},
	}

	computeCmd.Flags().StringVar(&taxable, "taxable", "", "Taxable amount")
	computeCmd.Flags().StringVar(&rate, "rate", "18", "GST rate percent")
	computeCmd.Flags().StringVar(&sellerState, "seller-state", "36", "Seller state code")
	computeCmd.Flags().StringVar(&buyerState, "buyer-state", "", "Buyer state code, empty for inter-state")
	computeCmd.MarkFlagRequired("taxable")

	cmd.AddCommand(computeCmd)
	return cmd
}

func gstinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gstin",
		Short: "GSTIN operations",
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <gstin>",
		Short: "Verify a GSTIN through the API",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body, _ := json.Marshal(map[string]string{"gstin": args[0]})
			result := postJSON("/api/v1/gstin/verify", body)

			pretty, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(pretty))
		},
	}

	cmd.AddCommand(verifyCmd)
	return cmd
}

func cleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Maintenance operations",
	}

	locationsCmd := &cobra.Command{
		Use:   "locations",
		Short: "Run one location retention pass",
		Run: func(cmd *cobra.Command, args []string) {
			result := postJSON("/api/v1/admin/cleanup/locations", nil)

			fmt.Printf("Sessions processed: %v\n", result["sessions_processed"])
			fmt.Printf("Points deleted:     %v\n", result["points_deleted"])
		},
	}

	cmd.AddCommand(locationsCmd)
	return cmd
}

func postJSON(path string, body []byte) map[string]any {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	return result
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/inspi-writer001/feesplit/internal/adapter/http/dto"
	"github.com/inspi-writer001/feesplit/internal/adapter/ledger/memory"
	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/postgres"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "feesplit-cli",
		Short:         "Fee-split transfer CLI",
		Long:          `A command line interface for quoting, simulating and submitting fee-split transfers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the fee-split API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("FEESPLIT_TOKEN"), "Bearer token for the API")

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Token account operations",
	}
	accountCmd.AddCommand(accountGetCmd(), accountCreateCmd())

	rootCmd.AddCommand(splitCmd(), simulateCmd(), transferCmd(), accountCmd, migrateCmd())

	return rootCmd
}

func splitCmd() *cobra.Command {
	var (
		amount   string
		uiAmount string
		decimals int32
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Show the fee and net of an amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := dto.ParseQuoteAmount(amount, uiAmount, decimals)
			if err != nil {
				return err
			}

			split, err := domain.ComputeSplit(base)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), dto.QuoteFromDomain(split, decimals))
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount in base units")
	cmd.Flags().StringVar(&uiAmount, "ui-amount", "", "Amount in display units")
	cmd.Flags().Int32Var(&decimals, "decimals", 0, "Mint decimals for --ui-amount")

	return cmd
}

type simulationResult struct {
	Split    *dto.QuoteResponse `json:"split,omitempty"`
	Error    string             `json:"error,omitempty"`
	Kind     string             `json:"kind"`
	Leg      domain.Leg         `json:"failed_leg,omitempty"`
	Balances map[string]string  `json:"balances"`
}

func simulateCmd() *cobra.Command {
	var (
		amount           uint64
		sourceBalance    uint64
		recipientBalance uint64
		feeBalance       uint64
		foreignAuthority bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a fee-split transfer against an in-memory ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := simulate(cmd.Context(), amount, sourceBalance, recipientBalance, feeBalance, foreignAuthority)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().Uint64Var(&amount, "amount", 0, "Amount in base units")
	cmd.Flags().Uint64Var(&sourceBalance, "balance", 0, "Starting source balance")
	cmd.Flags().Uint64Var(&recipientBalance, "recipient-balance", 0, "Starting recipient balance")
	cmd.Flags().Uint64Var(&feeBalance, "fee-balance", 0, "Starting fee collector balance")
	cmd.Flags().BoolVar(&foreignAuthority, "foreign-authority", false, "Sign with a key that does not own the source")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// simulate seeds three accounts, runs one transfer in a transaction and
// reports the committed balances. A failed transfer is rolled back.
func simulate(ctx context.Context, amount, sourceBalance, recipientBalance, feeBalance uint64, foreignAuthority bool) (*simulationResult, error) {
	keys := make([]domain.AccountRef, 5)
	for i := range keys {
		ref, err := domain.NewAccountRef()
		if err != nil {
			return nil, err
		}
		keys[i] = ref
	}

	source, recipient, feeCollector := keys[0], keys[1], keys[2]
	owner := domain.Principal(keys[3])
	authority := owner
	if foreignAuthority {
		authority = domain.Principal(keys[4])
	}

	const mint = "simulated-mint"
	store := memory.NewStore()
	if err := store.Seed(ctx,
		domain.TokenAccount{Address: source, Owner: owner, Mint: mint, Balance: sourceBalance},
		domain.TokenAccount{Address: recipient, Owner: domain.Principal(recipient), Mint: mint, Balance: recipientBalance},
		domain.TokenAccount{Address: feeCollector, Owner: domain.Principal(feeCollector), Mint: mint, Balance: feeBalance},
	); err != nil {
		return nil, err
	}

	tx, err := store.Begin(ctx)
	if err != nil {
		return nil, err
	}

	split, runErr := usecase.NewFeeSplitTransfer(store.LedgerFor(tx)).Execute(ctx, domain.TransferRequest{
		Amount:       amount,
		Source:       source,
		Recipient:    recipient,
		FeeCollector: feeCollector,
		Authority:    authority,
	})

	if runErr != nil {
		if err := tx.Rollback(ctx); err != nil {
			return nil, err
		}
	} else if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result := &simulationResult{
		Kind: domain.ErrorKind(runErr),
		Balances: map[string]string{
			"source":        strconv.FormatUint(store.Balance(source), 10),
			"recipient":     strconv.FormatUint(store.Balance(recipient), 10),
			"fee_collector": strconv.FormatUint(store.Balance(feeCollector), 10),
		},
	}

	var legErr *domain.LegError
	switch {
	case runErr == nil:
		result.Split = dto.QuoteFromDomain(split, 0)
	case errors.As(runErr, &legErr):
		result.Split = dto.QuoteFromDomain(split, 0)
		result.Leg = legErr.Leg
		result.Error = runErr.Error()
	default:
		result.Error = runErr.Error()
	}

	return result, nil
}

func transferCmd() *cobra.Command {
	var (
		req            dto.CreateFeeSplitRequest
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Submit a fee-split transfer to the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(req)
			if err != nil {
				return err
			}

			headers := map[string]string{}
			if idempotencyKey != "" {
				headers["Idempotency-Key"] = idempotencyKey
			}

			return doRequest(cmd.Context(), cmd.OutOrStdout(), http.MethodPost, "/api/v1/transfers/fee-split", body, headers)
		},
	}

	cmd.Flags().StringVar(&req.Amount, "amount", "", "Amount in base units")
	cmd.Flags().StringVar(&req.UIAmount, "ui-amount", "", "Amount in display units")
	cmd.Flags().Int32Var(&req.Decimals, "decimals", 0, "Mint decimals for --ui-amount")
	cmd.Flags().StringVar(&req.Source, "source", "", "Source account address")
	cmd.Flags().StringVar(&req.Recipient, "recipient", "", "Recipient account address")
	cmd.Flags().StringVar(&req.FeeCollector, "fee-collector", "", "Fee collector account address")
	cmd.Flags().StringVar(&req.Authority, "authority", "", "Authority key (defaults to the token subject)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("recipient")
	_ = cmd.MarkFlagRequired("fee-collector")

	return cmd
}

func accountGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ADDRESS",
		Short: "Show a token account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(cmd.Context(), cmd.OutOrStdout(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, nil)
		},
	}
}

func accountCreateCmd() *cobra.Command {
	var req dto.CreateAccountRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a token account",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(req)
			if err != nil {
				return err
			}
			return doRequest(cmd.Context(), cmd.OutOrStdout(), http.MethodPost, "/api/v1/accounts", body, nil)
		},
	}

	cmd.Flags().StringVar(&req.Address, "address", "", "Account address (generated when empty)")
	cmd.Flags().StringVar(&req.Owner, "owner", "", "Owner key")
	cmd.Flags().StringVar(&req.Mint, "mint", "", "Mint")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("mint")

	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&path, "path", "internal/infrastructure/postgres/migrations", "Migrations directory")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if databaseURL == "" {
					return errors.New("--database-url or DATABASE_URL is required")
				}
				return postgres.RunMigrations(databaseURL, path)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if databaseURL == "" {
					return errors.New("--database-url or DATABASE_URL is required")
				}
				return postgres.RunMigrationsDown(databaseURL, path)
			},
		},
	)

	return cmd
}

func doRequest(ctx context.Context, out io.Writer, method, path string, body []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(baseURL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr dto.ErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("request failed (status %d, %s): %s %s", resp.StatusCode, apiErr.Kind, apiErr.Error, apiErr.Message)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var decoded any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return printJSON(out, decoded)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

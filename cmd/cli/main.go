package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/auth"
	"github.com/iho/settleledger/internal/infrastructure/logger"
	"github.com/iho/settleledger/internal/infrastructure/postgres"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "settle-cli",
		Short:        "Settlement ledger CLI tool",
		Long:         `A command line interface for the settlement and reconciliation API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the settlement API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("SETTLE_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		planCmd(opts),
		payCmd(opts),
		batchCmd(opts),
		undoCmd(opts),
		entriesCmd(opts),
		reconcileCmd(opts),
		summaryCmd(opts),
		tokenCmd(),
		migrateCmd(),
	)

	return rootCmd
}

// apiClient is a thin JSON client for the /api/v1 surface.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func (o *options) client() *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(o.baseURL, "/"),
		token:   o.token,
		http:    &http.Client{Timeout: o.timeout},
	}
}

// do sends body as JSON and returns the raw response. Non-2xx answers become
// errors carrying the server's message.
func (c *apiClient) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return nil, fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return nil, fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return data, nil
}

// show runs a request and pretty-prints the JSON answer.
func (c *apiClient) show(cmd *cobra.Command, method, path string, body any) error {
	data, err := c.do(cmd.Context(), method, path, body)
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func planCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Installment plans",
	}

	var (
		company, kind, counterparty, description, total, firstDue, paymentMethod string
		count                                                                     int
		recurring                                                                 bool
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an installment plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"company_id":        company,
				"kind":              kind,
				"counterparty_id":   counterparty,
				"description":       description,
				"total":             total,
				"first_due_date":    firstDue,
				"installment_count": count,
				"is_recurring":      recurring,
			}
			if paymentMethod != "" {
				body["payment_method_id"] = paymentMethod
			}
			return opts.client().show(cmd, http.MethodPost, "/api/v1/plans", body)
		},
	}
	createCmd.Flags().StringVar(&company, "company", "", "Company ID")
	createCmd.Flags().StringVar(&kind, "kind", string(domain.EntryKindReceivable), "receivable or payable")
	createCmd.Flags().StringVar(&counterparty, "counterparty", "", "Counterparty ID")
	createCmd.Flags().StringVar(&description, "description", "", "Description")
	createCmd.Flags().StringVar(&total, "total", "", "Total amount")
	createCmd.Flags().StringVar(&firstDue, "first-due", "", "First due date (YYYY-MM-DD)")
	createCmd.Flags().IntVar(&count, "count", 1, "Number of installments")
	createCmd.Flags().StringVar(&paymentMethod, "payment-method", "", "Payment method ID")
	createCmd.Flags().BoolVar(&recurring, "recurring", false, "Mark the plan as recurring")
	_ = createCmd.MarkFlagRequired("company")
	_ = createCmd.MarkFlagRequired("total")
	_ = createCmd.MarkFlagRequired("first-due")

	getCmd := &cobra.Command{
		Use:   "get <plan-id>",
		Short: "Show the installments of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.client().show(cmd, http.MethodGet, "/api/v1/plans/"+url.PathEscape(args[0]), nil)
		},
	}

	cmd.AddCommand(createCmd, getCmd)
	return cmd
}

func payCmd(opts *options) *cobra.Command {
	var (
		company, amount, date, bankAccount, key, notes string
		entries                                        []string
		approve                                        bool
	)

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Record a payment against one or more entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"company_id":   company,
				"entry_ids":    entries,
				"payment_date": date,
				"approve":      approve,
			}
			if amount != "" {
				body["amount"] = amount
			}
			if bankAccount != "" {
				body["bank_account_id"] = bankAccount
			}
			if key != "" {
				body["idempotency_key"] = key
			}
			if notes != "" {
				body["notes"] = notes
			}
			return opts.client().show(cmd, http.MethodPost, "/api/v1/settlements", body)
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Company ID")
	cmd.Flags().StringSliceVar(&entries, "entry", nil, "Entry ID (repeatable)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, or \"remaining\" (default remaining)")
	cmd.Flags().StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"), "Payment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&bankAccount, "bank-account", "", "Bank account ID")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().BoolVar(&approve, "approve", true, "Approve the payment")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("entry")

	return cmd
}

func batchCmd(opts *options) *cobra.Command {
	var (
		company, date, bankAccount, key string
		entries                         []string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Settle the remaining amount of several entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"company_id":   company,
				"entry_ids":    entries,
				"payment_date": date,
			}
			if bankAccount != "" {
				body["bank_account_id"] = bankAccount
			}
			if key != "" {
				body["idempotency_key"] = key
			}
			return opts.client().show(cmd, http.MethodPost, "/api/v1/settlements/batch", body)
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Company ID")
	cmd.Flags().StringSliceVar(&entries, "entry", nil, "Entry ID (repeatable)")
	cmd.Flags().StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"), "Payment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&bankAccount, "bank-account", "", "Bank account ID")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("entry")

	return cmd
}

func undoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <entry-id>",
		Short: "Undo every payment of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.client().show(cmd, http.MethodPost, "/api/v1/entries/"+url.PathEscape(args[0])+"/undo", nil)
		},
	}
}

type entryRow struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Value       string  `json:"value"`
	Remaining   *string `json:"remaining"`
	DueDate     string  `json:"due_date"`
	Status      string  `json:"display_status"`
}

func entriesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Browse entries",
	}

	var company, kind, status, from, to string
	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List entries with their derived status",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("company_id", company)
			setIf(q, "kind", kind)
			setIf(q, "status", status)
			setIf(q, "from", from)
			setIf(q, "to", to)
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))

			data, err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/entries?"+q.Encode(), nil)
			if err != nil {
				return err
			}

			var resp struct {
				Entries []entryRow `json:"entries"`
				Total   int        `json:"total"`
			}
			if err := json.Unmarshal(data, &resp); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return printEntries(cmd.OutOrStdout(), resp.Entries)
		},
	}
	listCmd.Flags().StringVar(&company, "company", "", "Company ID")
	listCmd.Flags().StringVar(&kind, "kind", "", "receivable or payable")
	listCmd.Flags().StringVar(&status, "status", "", "pending, overdue, paid or cancelled")
	listCmd.Flags().StringVar(&from, "from", "", "Due date lower bound (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", "", "Due date upper bound (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	_ = listCmd.MarkFlagRequired("company")

	getCmd := &cobra.Command{
		Use:   "get <entry-id>",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.client().show(cmd, http.MethodGet, "/api/v1/entries/"+url.PathEscape(args[0]), nil)
		},
	}

	linesCmd := &cobra.Command{
		Use:   "lines <entry-id>",
		Short: "Show the payments recorded against an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.client().show(cmd, http.MethodGet, "/api/v1/entries/"+url.PathEscape(args[0])+"/ledger-lines", nil)
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel <entry-id>",
		Short: "Cancel an unpaid entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.client().show(cmd, http.MethodPost, "/api/v1/entries/"+url.PathEscape(args[0])+"/cancel", nil)
		},
	}

	cmd.AddCommand(listCmd, getCmd, linesCmd, cancelCmd)
	return cmd
}

func printEntries(w io.Writer, entries []entryRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tDUE\tAMOUNT\tREMAINING\tSTATUS\tDESCRIPTION")
	for _, e := range entries {
		remaining := "-"
		if e.Remaining != nil {
			remaining = *e.Remaining
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Kind, e.DueDate, e.Value, remaining, e.Status, truncate(e.Description, 32))
	}
	return tw.Flush()
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func reconcileCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile balances against the ledger",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "bank-account <id>",
			Short: "Reconcile a bank account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.client().show(cmd, http.MethodGet, "/api/v1/bank-accounts/"+url.PathEscape(args[0])+"/reconciliation", nil)
			},
		},
		&cobra.Command{
			Use:   "entry <id>",
			Short: "Check an entry against its ledger lines",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.client().show(cmd, http.MethodGet, "/api/v1/entries/"+url.PathEscape(args[0])+"/reconciliation", nil)
			},
		},
		&cobra.Command{
			Use:   "company <id>",
			Short: "Reconcile every bank account and entry of a company",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/companies/"+url.PathEscape(args[0])+"/reconciliation", nil)
				if err != nil {
					return err
				}

				var report struct {
					Reconciled bool `json:"is_reconciled"`
				}
				if err := json.Unmarshal(data, &report); err != nil {
					return fmt.Errorf("decode response: %w", err)
				}

				var v any
				_ = json.Unmarshal(data, &v)
				if err := printJSON(cmd.OutOrStdout(), v); err != nil {
					return err
				}
				if !report.Reconciled {
					return fmt.Errorf("company %s is not reconciled", args[0])
				}
				return nil
			},
		},
	)

	return cmd
}

func summaryCmd(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary <company-id>",
		Short: "Show receivable and payable totals of a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "from", from)
			setIf(q, "to", to)

			path := "/api/v1/companies/" + url.PathEscape(args[0]) + "/summary"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			return opts.client().show(cmd, http.MethodGet, path, nil)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Due date lower bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Due date upper bound (YYYY-MM-DD)")

	return cmd
}

func tokenCmd() *cobra.Command {
	var secret, userID, email, role, company string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			r := domain.Role(role)
			if !r.IsValid() {
				return fmt.Errorf("invalid role %q", role)
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(&domain.User{
				ID:        userID,
				Email:     email,
				Role:      r,
				CompanyID: company,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().StringVar(&userID, "user", "cli", "User ID")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleOperator), "admin, operator or viewer")
	cmd.Flags().StringVar(&company, "company", "", "Company ID")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	cmd.PersistentFlags().StringVar(&path, "path", "internal/infrastructure/postgres/migrations", "Migrations directory")

	migrator := func(cmd *cobra.Command) (*postgres.Migrator, error) {
		if databaseURL == "" {
			return nil, fmt.Errorf("--database-url or DATABASE_URL is required")
		}
		log := logger.NewWithWriter(logger.Config{Level: "info", Format: "console"}, cmd.ErrOrStderr())
		return postgres.NewMigrator(databaseURL, path, log), nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	downCmd := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default one step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid steps %q", args[0])
				}
				steps = n
			}
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Down(steps)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %v)\n", version, dirty)
			return nil
		},
	}

	cmd.AddCommand(upCmd, downCmd, versionCmd)
	return cmd
}

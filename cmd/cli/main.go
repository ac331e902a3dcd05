package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// client talks to the gobudget HTTP API.
type client struct {
	baseURL string
	token   string
	http    *http.Client
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
}

func main() {
	if err := execute(newRootCmd(os.Stdout), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs cmd with args, passing negative amounts such as "-20"
// through as positionals instead of shorthand flags.
func execute(cmd *cobra.Command, args []string) error {
	cmd.SetArgs(negativeAmountsAsPositionals(cmd, args))
	return cmd.Execute()
}

// negativeAmountsAsPositionals moves negative numbers that are not flag
// values behind a "--" terminator. Relative order of positionals is kept
// as long as the negative amount is the last positional before "--".
func negativeAmountsAsPositionals(root *cobra.Command, args []string) []string {
	sub, _, err := root.Find(args)
	if err != nil {
		sub = root
	}

	var (
		rest      []string
		negatives []string
		tail      []string
	)
	for i, arg := range args {
		if arg == "--" {
			tail = args[i+1:]
			break
		}
		if isNegativeNumber(arg) && (i == 0 || !takesValue(sub, args[i-1])) {
			negatives = append(negatives, arg)
			continue
		}
		rest = append(rest, arg)
	}

	if len(negatives) == 0 {
		return args
	}

	out := append(rest, "--")
	out = append(out, negatives...)
	return append(out, tail...)
}

func isNegativeNumber(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	_, err := decimal.NewFromString(arg)
	return err == nil
}

// takesValue reports whether arg is a flag that consumes the next argument.
func takesValue(cmd *cobra.Command, arg string) bool {
	if !strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
		return false
	}

	name := strings.TrimLeft(arg, "-")
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(name)
	}
	if flag == nil && !strings.HasPrefix(arg, "--") && len(name) == 1 {
		flag = cmd.Flags().ShorthandLookup(name)
	}

	return flag != nil && flag.Value.Type() != "bool"
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		baseURL string
		token   string
		timeout time.Duration
	)

	c := &client{}

	rootCmd := &cobra.Command{
		Use:           "gobudget-cli",
		Short:         "gobudget CLI tool",
		Long:          `A command line interface for the gobudget personal budget API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.baseURL = baseURL
			c.token = token
			c.http = &http.Client{Timeout: timeout}
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the gobudget API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GOBUDGET_TOKEN"), "Bearer token (defaults to $GOBUDGET_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	var name string
	registerCmd := &cobra.Command{
		Use:   "register <email> <password>",
		Short: "Create an account and print its token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(cmd, http.MethodPost, "/api/v1/auth/register", map[string]string{
				"email": args[0], "password": args[1], "name": name,
			})
		},
	}
	registerCmd.Flags().StringVar(&name, "name", "", "Display name")

	loginCmd := &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in and print a token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(cmd, http.MethodPost, "/api/v1/auth/login", map[string]string{
				"email": args[0], "password": args[1],
			})
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(cmd, http.MethodGet, "/api/v1/budget", nil)
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <amount>",
		Short: "Overwrite the balance without recording an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(cmd, http.MethodPut, "/api/v1/budget", map[string]string{"amount": args[0]})
		},
	}

	var deltaDescription string
	deltaCmd := &cobra.Command{
		Use:     "delta <signed-amount>",
		Short:   "Record an income (positive) or expense (negative)",
		Example: "  gobudget-cli delta -20 --description Groceries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"delta": args[0]}
			if deltaDescription != "" {
				body["description"] = deltaDescription
			}
			return c.print(cmd, http.MethodPatch, "/api/v1/budget", body)
		},
	}
	deltaCmd.Flags().StringVar(&deltaDescription, "description", "", "Entry description")

	var (
		recordDescription string
		occurredAt        string
	)
	recordCmd := &cobra.Command{
		Use:   "record <INCOME|EXPENSE> <amount>",
		Short: "Record an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"type": args[0], "amount": args[1]}
			if recordDescription != "" {
				body["description"] = recordDescription
			}
			if occurredAt != "" {
				if _, err := time.Parse(time.RFC3339, occurredAt); err != nil {
					return fmt.Errorf("invalid --at, want RFC3339: %w", err)
				}
				body["occurred_at"] = occurredAt
			}
			return c.print(cmd, http.MethodPost, "/api/v1/budget/entries", body)
		},
	}
	recordCmd.Flags().StringVar(&recordDescription, "description", "", "Entry description")
	recordCmd.Flags().StringVar(&occurredAt, "at", "", "When the entry happened (RFC3339, default now)")

	var page, size int
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("size", strconv.Itoa(size))
			return c.print(cmd, http.MethodGet, "/api/v1/budget/entries?"+q.Encode(), nil)
		},
	}
	entriesCmd.Flags().IntVar(&page, "page", 0, "Page number, starting at 0")
	entriesCmd.Flags().IntVar(&size, "size", 20, "Page size")

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare the balance with the sum of entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(cmd, http.MethodGet, "/api/v1/budget/reconciliation", nil)
		},
	}

	rootCmd.AddCommand(registerCmd, loginCmd, balanceCmd, setCmd, deltaCmd, recordCmd, entriesCmd, reconcileCmd)

	return rootCmd
}

// print performs the request and writes the indented JSON response.
func (c *client) print(cmd *cobra.Command, method, path string, body any) error {
	data, err := c.do(method, path, body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(data)
	}

	fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
	return nil
}

func (c *client) do(method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
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

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := string(data)
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
			if e.Message != "" {
				msg += ": " + e.Message
			}
		}
		return nil, &apiError{Status: resp.StatusCode, Message: msg}
	}

	return data, nil
}

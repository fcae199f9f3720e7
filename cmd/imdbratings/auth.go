package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"imdbratings/pkg/auth"
	"imdbratings/pkg/ui"
)

var (
	loginUserAgent string
	loginFromFile  string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored IMDb cookie sessions",
	Long: `Manage stored IMDb cookie sessions.

Sessions are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - IMDBRATINGS_COOKIES environment variable (read only)

Use a stored session with --account <name>.`,
}

var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store an IMDb cookie string",
	Long: `Store the Cookie header of a logged-in IMDb browser session under a name.
The cookie string is read without echo when stdin is a terminal.`,
	Example: `  # Interactive login
  imdbratings auth login main

  # Import an existing cookie file
  imdbratings auth login main --from-file cookies.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove a stored session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions with masked cookie values",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)

	loginCmd.Flags().StringVar(&loginUserAgent, "user-agent", "", "user agent to send with this session")
	loginCmd.Flags().StringVar(&loginFromFile, "from-file", "", "read the cookie string from a file instead of prompting")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(os.Stdin)

	name := "default"
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}

	var cookies string
	if loginFromFile != "" {
		parsed, err := auth.ReadCookieFile(loginFromFile)
		if err != nil {
			return err
		}
		cookies = auth.FormatCookies(parsed)
	} else {
		auth.ShowQuickExtractGuide(out)
		for cookies == "" {
			fmt.Fprint(out, "Cookie: ")
			input, err := readSecret(reader)
			if err != nil {
				return fmt.Errorf("failed to read cookies: %w", err)
			}
			if input == "help" {
				auth.ShowCookieExtractionGuide(out)
				continue
			}
			cookies = input
		}
	}

	account := &auth.Account{Name: name, Cookies: cookies, UserAgent: loginUserAgent}
	if err := manager.Store(account); err != nil {
		return err
	}

	ui.NewTerminal(out).PrintSuccess(fmt.Sprintf("Session %q stored", name))
	fmt.Fprintf(out, "\nUse it with:\n  imdbratings <input-file> <output-dir> --account %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	out := cmd.OutOrStdout()

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		accounts, err := manager.List()
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			ui.NewTerminal(out).PrintWarning("No stored sessions")
			return nil
		}
		for i, account := range accounts {
			fmt.Fprintf(out, "  %d. %s\n", i+1, account.Name)
		}
		fmt.Fprint(out, "Choice: ")
		input, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		choice, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil || choice < 1 || choice > len(accounts) {
			return fmt.Errorf("invalid choice %q", strings.TrimSpace(input))
		}
		name = accounts[choice-1].Name
	}

	if err := manager.Delete(name); err != nil {
		return err
	}
	ui.NewTerminal(out).PrintSuccess(fmt.Sprintf("Session %q removed", name))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return err
	}

	terminal := ui.NewTerminal(cmd.OutOrStdout())
	if len(accounts) == 0 {
		terminal.PrintWarning("No stored sessions. Run 'imdbratings auth login' to add one.")
		return nil
	}

	for _, account := range accounts {
		masked := auth.SanitizeAccount(account)
		terminal.PrintInfo(masked.Name, masked.Cookies)
		if masked.UserAgent != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  user agent: %s\n", masked.UserAgent)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  modified:   %s\n", masked.LastModified.Format("2006-01-02 15:04"))
	}
	return nil
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	bboltstorage "github.com/jmcleod/keyagree/storage/bbolt"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var (
	keyringPath string
	logLevel    string
	logJSON     bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "keyagree",
	Short: "keyagree manages X25519 key-agreement keys",
	Long: `Generate, convert, fingerprint and store X25519KeyAgreementKey2019 keys
for Linked-Data identity documents, and derive shared secrets with them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(cmd.ErrOrStderr(), logLevel, logJSON)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&keyringPath, "keyring", "./keyring.db", "Path to the key store database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
}

func newLogger(w io.Writer, level string, asJSON bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func openKeyring() (*bboltstorage.Store, error) {
	repo, err := bboltstorage.NewRepositoryFromFile(keyringPath, nil)
	if err != nil {
		return nil, fmt.Errorf("opening keyring %s: %w", keyringPath, err)
	}
	return repo, nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmcleod/keyagree/crypto"
	"github.com/jmcleod/keyagree/key"
)

var (
	generateController string
	generateID         string
	generateBackend    string
	generateStore      bool
	generatePrivate    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new X25519 key-agreement key pair",
	Long: `Generates a key pair and prints its record as JSON. With --store the key
pair, including its private key, is saved in the keyring under its controller.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateStore && generateController == "" {
			return fmt.Errorf("--store requires --controller")
		}
		b, err := backendByName(generateBackend)
		if err != nil {
			return err
		}

		opts := []key.Option{key.WithController(generateController)}
		if generateID != "" {
			opts = append(opts, key.WithID(generateID))
		}
		kp, err := key.NewSuite(b).Generate(opts...)
		if err != nil {
			return err
		}
		logger.Debug("generated key", "fingerprint", kp.Fingerprint(), "backend", generateBackend)

		out, err := exportKey(kp, generateStore, generatePrivate)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateController, "controller", "", "Controller of the key (e.g. a DID)")
	generateCmd.Flags().StringVar(&generateID, "id", "", "Key id (default controller#fingerprint)")
	generateCmd.Flags().StringVar(&generateBackend, "backend", "curve25519", "X25519 backend (curve25519, ecdh)")
	generateCmd.Flags().BoolVar(&generateStore, "store", false, "Save the key pair in the keyring")
	generateCmd.Flags().BoolVar(&generatePrivate, "show-private", false, "Include the private key in the output")
}

func backendByName(name string) (crypto.Backend, error) {
	switch name {
	case "", "curve25519":
		return crypto.Curve25519(), nil
	case "ecdh":
		return crypto.ECDH(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want curve25519 or ecdh)", name)
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmcleod/keyagree/convert"
	"github.com/jmcleod/keyagree/key"
)

var (
	convertController string
	convertStore      bool
	convertPrivate    bool
)

// ed25519Input accepts either encoding of an Ed25519 verification key.
type ed25519Input struct {
	ID                  string `json:"id"`
	Controller          string `json:"controller"`
	PublicKeyBase58     string `json:"publicKeyBase58"`
	PrivateKeyBase58    string `json:"privateKeyBase58"`
	PublicKeyMultibase  string `json:"publicKeyMultibase"`
	PrivateKeyMultibase string `json:"privateKeyMultibase"`
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert an Ed25519 key pair into an X25519 key-agreement key pair",
	Long: `Reads an Ed25519 key pair as JSON from file (or stdin when file is "-" or
omitted) and prints the converted X25519 key pair. Both the legacy
publicKeyBase58/privateKeyBase58 form and the publicKeyMultibase/
privateKeyMultibase form are accepted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("cannot read file: %w", err)
			}
			defer f.Close()
			r = f
		}

		in, err := readEd25519Input(r)
		if err != nil {
			return err
		}
		if convertController != "" {
			in.Controller = convertController
		}
		if convertStore && in.Controller == "" {
			return fmt.Errorf("--store requires a controller")
		}

		kp, err := convertInput(in)
		if err != nil {
			return err
		}

		out, err := exportKey(kp, convertStore, convertPrivate)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertController, "controller", "", "Override the controller of the source key")
	convertCmd.Flags().BoolVar(&convertStore, "store", false, "Save the converted key pair in the keyring")
	convertCmd.Flags().BoolVar(&convertPrivate, "show-private", false, "Include the private key in the output")
}

func readEd25519Input(r io.Reader) (ed25519Input, error) {
	var in ed25519Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return ed25519Input{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return in, nil
}

func convertInput(in ed25519Input) (*key.KeyPair, error) {
	switch {
	case in.PublicKeyMultibase != "" && in.PublicKeyBase58 != "":
		return nil, fmt.Errorf("only one of publicKeyBase58 and publicKeyMultibase may be set")
	case in.PublicKeyMultibase != "":
		return key.FromEd25519Multibase(convert.Ed25519MultibaseKeyPair{
			ID:                  in.ID,
			Controller:          in.Controller,
			PublicKeyMultibase:  in.PublicKeyMultibase,
			PrivateKeyMultibase: in.PrivateKeyMultibase,
		})
	case in.PublicKeyBase58 != "":
		return key.FromEd25519(convert.Ed25519KeyPair{
			ID:               in.ID,
			Controller:       in.Controller,
			PublicKeyBase58:  in.PublicKeyBase58,
			PrivateKeyBase58: in.PrivateKeyBase58,
		})
	default:
		return nil, fmt.Errorf("publicKeyBase58 or publicKeyMultibase is required")
	}
}

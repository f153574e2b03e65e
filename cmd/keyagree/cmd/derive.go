package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmcleod/keyagree/codec"
	"github.com/jmcleod/keyagree/crypto"
	"github.com/jmcleod/keyagree/internal/util"
	"github.com/jmcleod/keyagree/key"
	"github.com/jmcleod/keyagree/suite"
)

var (
	deriveController        string
	deriveFingerprint       string
	deriveRemoteFingerprint string
	deriveRemoteKey         string
	deriveKDF               bool
	deriveSalt              string
	deriveInfo              string
	deriveLength            int
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive a shared secret with a remote public key",
	Long: `Derives the X25519 shared secret between a key in the keyring and a remote
public key, given by fingerprint or base58. The raw secret is printed in
base58; with --kdf it is passed through HKDF-SHA256 first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if deriveController == "" || deriveFingerprint == "" {
			return fmt.Errorf("--controller and --fingerprint are required")
		}

		remote, err := parseRemote(deriveRemoteFingerprint, deriveRemoteKey)
		if err != nil {
			return err
		}

		repo, err := openKeyring()
		if err != nil {
			return err
		}
		defer repo.Close()

		rec, err := repo.Get(deriveController, deriveFingerprint)
		if err != nil {
			return err
		}
		local, err := key.FromRecord(rec)
		if err != nil {
			return err
		}

		s, err := suite.Default().Lookup(rec.Type.String())
		if err != nil {
			return err
		}
		secret, err := s.DeriveSecret(local, remote)
		if err != nil {
			return err
		}
		defer util.WipeBytes(secret)
		logger.Debug("derived shared secret", "fingerprint", deriveFingerprint, "remote", remote.Fingerprint())

		if !deriveKDF {
			fmt.Fprintln(cmd.OutOrStdout(), codec.EncodeBase58(secret))
			return nil
		}

		opts := []crypto.DeriveKeyOption{crypto.WithLength(deriveLength)}
		if deriveSalt != "" {
			salt, err := codec.DecodeBase58(deriveSalt)
			if err != nil {
				return fmt.Errorf("--salt: %w", err)
			}
			opts = append(opts, crypto.WithSalt(salt))
		}
		if deriveInfo != "" {
			opts = append(opts, crypto.WithInfo([]byte(deriveInfo)))
		}
		k, err := crypto.DeriveKey(secret, opts...)
		if err != nil {
			return err
		}
		defer util.WipeBytes(k)
		fmt.Fprintln(cmd.OutOrStdout(), codec.EncodeBase58(k))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deriveCmd)
	deriveCmd.Flags().StringVar(&deriveController, "controller", "", "Controller of the local key")
	deriveCmd.Flags().StringVar(&deriveFingerprint, "fingerprint", "", "Fingerprint of the local key")
	deriveCmd.Flags().StringVar(&deriveRemoteFingerprint, "remote-fingerprint", "", "Fingerprint of the remote public key")
	deriveCmd.Flags().StringVar(&deriveRemoteKey, "remote-key", "", "Remote public key (base58)")
	deriveCmd.Flags().BoolVar(&deriveKDF, "kdf", false, "Print an HKDF-SHA256 key instead of the raw secret")
	deriveCmd.Flags().StringVar(&deriveSalt, "salt", "", "HKDF salt (base58)")
	deriveCmd.Flags().StringVar(&deriveInfo, "info", "", "HKDF info (default X25519KeyAgreementKey2019)")
	deriveCmd.Flags().IntVar(&deriveLength, "length", util.HKDFKeyLength, "HKDF output length in bytes")
	deriveCmd.MarkFlagsMutuallyExclusive("remote-fingerprint", "remote-key")
}

func parseRemote(fingerprint, publicKeyBase58 string) (*key.KeyPair, error) {
	switch {
	case fingerprint != "":
		return key.FromFingerprint(fingerprint)
	case publicKeyBase58 != "":
		pub, err := codec.DecodeKeyBase58(publicKeyBase58)
		if err != nil {
			return nil, err
		}
		return key.New(key.WithPublicKey(pub))
	default:
		return nil, fmt.Errorf("--remote-fingerprint or --remote-key is required")
	}
}

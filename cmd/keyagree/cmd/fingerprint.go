package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmcleod/keyagree/codec"
)

var fingerprintLegacy bool

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <publicKeyBase58>",
	Short: "Print the fingerprint of an X25519 public key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, err := codec.DecodeKeyBase58(args[0])
		if err != nil {
			return err
		}
		fp := codec.EncodeFingerprint(pub)
		if fingerprintLegacy {
			fp = codec.EncodeLegacyFingerprint(pub)
		}
		fmt.Fprintln(cmd.OutOrStdout(), fp)
		return nil
	},
}

// errFingerprintInvalid makes the verify command exit non-zero after the
// report has been printed.
var errFingerprintInvalid = errors.New("fingerprint verification failed")

type fingerprintReport struct {
	PublicKey   string        `json:"publicKeyBase58"`
	Fingerprint string        `json:"fingerprint"`
	Valid       bool          `json:"valid"`
	Checks      []checkResult `json:"checks"`
}

type checkResult struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pass", "fail", "warn"
	Detail string `json:"detail,omitempty"`
}

// verifyFingerprintReport runs codec.VerifyFingerprint and breaks the
// outcome down into the checks it performs. A fingerprint that only
// matches in the legacy single-byte form is reported as a warning.
func verifyFingerprintReport(publicKey []byte, fingerprint string) fingerprintReport {
	report := fingerprintReport{
		PublicKey:   codec.EncodeBase58(publicKey),
		Fingerprint: fingerprint,
	}
	pass := func(name string) {
		report.Checks = append(report.Checks, checkResult{Name: name, Status: "pass"})
	}
	fail := func(name string, err error) {
		report.Checks = append(report.Checks, checkResult{Name: name, Status: "fail", Detail: err.Error()})
	}

	res := codec.VerifyFingerprint(publicKey, fingerprint)
	switch {
	case res.Valid:
		pass("multibase_prefix")
		pass("multicodec_header")
		pass("key_match")
		report.Valid = true
	case errors.Is(res.Err, codec.ErrNotMultibaseEncoded):
		fail("multibase_prefix", res.Err)
	case errors.Is(res.Err, codec.ErrDecodeFailed):
		pass("multibase_prefix")
		if legacy, err := codec.DecodeLegacyFingerprint(fingerprint); err == nil && bytes.Equal(legacy, publicKey) {
			report.Checks = append(report.Checks, checkResult{
				Name:   "multicodec_header",
				Status: "warn",
				Detail: "fingerprint uses the legacy single-byte x25519-pub header",
			})
			pass("key_match")
			report.Valid = true
			return report
		}
		fail("multicodec_header", res.Err)
	default:
		pass("multibase_prefix")
		pass("multicodec_header")
		fail("key_match", res.Err)
	}
	return report
}

func printHumanReport(w io.Writer, report fingerprintReport) {
	fmt.Fprintf(w, "Fingerprint: %s\n", report.Fingerprint)
	fmt.Fprintf(w, "Public key:  %s\n\n", report.PublicKey)

	warnings := 0
	for _, c := range report.Checks {
		tag := "[PASS]"
		switch c.Status {
		case "fail":
			tag = "[FAIL]"
		case "warn":
			tag = "[WARN]"
			warnings++
		}
		if c.Detail != "" {
			fmt.Fprintf(w, "%s %s: %s\n", tag, c.Name, c.Detail)
		} else {
			fmt.Fprintf(w, "%s %s\n", tag, c.Name)
		}
	}

	fmt.Fprintln(w)
	switch {
	case !report.Valid:
		fmt.Fprintln(w, "Result: INVALID")
	case warnings > 0:
		fmt.Fprintf(w, "Result: VALID (%d warning(s))\n", warnings)
	default:
		fmt.Fprintln(w, "Result: VALID")
	}
}

var verifyJSONOutput bool

var verifyCmd = &cobra.Command{
	Use:   "verify <publicKeyBase58> <fingerprint>",
	Short: "Check that a fingerprint was produced from a public key",
	Long: `Verifies that fingerprint is the multibase, multicodec-prefixed encoding
of the given base58 X25519 public key. Exits non-zero when it is not.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, err := codec.DecodeKeyBase58(args[0])
		if err != nil {
			return err
		}

		report := verifyFingerprintReport(pub, args[1])
		if verifyJSONOutput {
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			printHumanReport(cmd.OutOrStdout(), report)
		}

		if !report.Valid {
			return errFingerprintInvalid
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)
	fingerprintCmd.Flags().BoolVar(&fingerprintLegacy, "legacy", false, "Use the legacy single-byte multicodec header")

	fingerprintCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyJSONOutput, "json", false, "Output results as JSON")
}

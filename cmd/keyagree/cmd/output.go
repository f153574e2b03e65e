package cmd

import (
	"encoding/json"
	"io"

	"github.com/jmcleod/keyagree/key"
)

// keyOutput is the JSON printed by commands that produce a key.
type keyOutput struct {
	Fingerprint string     `json:"fingerprint"`
	Key         key.Record `json:"key"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exportKey exports kp with its private key and, when store is set, puts
// it in the keyring. The private key is left in the output only when
// showPrivate is set.
func exportKey(kp *key.KeyPair, store, showPrivate bool) (keyOutput, error) {
	rec, err := kp.Export(key.ExportOptions{PublicKey: true, PrivateKey: true})
	if err != nil {
		return keyOutput{}, err
	}

	if store {
		repo, err := openKeyring()
		if err != nil {
			return keyOutput{}, err
		}
		defer repo.Close()

		rec, err = repo.Put(rec)
		if err != nil {
			return keyOutput{}, err
		}
		logger.Info("stored key", "controller", rec.Controller, "fingerprint", kp.Fingerprint(), "keyring", keyringPath)
	}

	if !showPrivate {
		rec.PrivateKeyBase58 = ""
	}
	return keyOutput{Fingerprint: kp.Fingerprint(), Key: rec}, nil
}

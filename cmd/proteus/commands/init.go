package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linh30121998/proteus/internal/keys"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate an identity keypair and store it securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			id, err := keys.NewIdentityKeyPair()
			if err != nil {
				return err
			}
			if err := wire.Identity.Save(passphrase, id); err != nil {
				return err
			}
			fmt.Printf("Identity created.\nFingerprint: %s\n", id.Public.Fingerprint())
			return nil
		},
	}
}

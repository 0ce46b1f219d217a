package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linh30121998/proteus/internal/session"
)

// inspectCmd decodes a stored session with the local identity and prints a
// summary. Any decode failure means the persisted session cannot be
// trusted; the remedy is a fresh handshake, never a partial repair.
func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <name>",
		Short: "Decode a stored session and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			id, err := wire.Identity.Load(passphrase)
			if err != nil {
				return err
			}
			raw, err := wire.Sessions.Load(passphrase, name)
			if err != nil {
				return err
			}

			s, err := session.DecodeSession(id, raw)
			if err != nil {
				var identityErr *session.IdentityChangedError
				switch {
				case errors.As(err, &identityErr):
					logger.Error().
						Str("embedded", identityErr.Embedded.Fingerprint()).
						Str("local", id.Public.Fingerprint()).
						Msg("session belongs to a different identity")
				case errors.Is(err, session.ErrMalformed):
					logger.Error().Err(err).Msg("session data is corrupted or unsupported")
				}
				return fmt.Errorf("session %q cannot be resumed, re-establish it via a new handshake: %w", name, err)
			}

			fmt.Printf("Session %s\n", name)
			fmt.Printf("  Version:        %d\n", s.Version)
			fmt.Printf("  Tag:            %s\n", s.Tag)
			fmt.Printf("  Remote:         %s\n", s.RemoteIdentity.Fingerprint())
			if s.PendingPrekey != nil {
				fmt.Printf("  Pending prekey: id=%d\n", s.PendingPrekey.ID)
			} else {
				fmt.Printf("  Pending prekey: none\n")
			}
			fmt.Printf("  States:         %d\n", s.States.Len())
			for _, tag := range s.States.Tags() {
				st, _ := s.States.Get(tag)
				idx, _ := s.States.Index(tag)
				fmt.Printf("    [%d] %s recv_chains=%d send_idx=%d prev=%d skipped=%d\n",
					idx, tag, len(st.RecvChains), st.SendChain.ChainKey.Index, st.PrevCounter, len(st.Skipped))
			}
			return nil
		},
	}
}

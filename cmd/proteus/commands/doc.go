// Package commands defines the proteus CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init           Create the local identity
//   - fingerprint    Print the identity fingerprint
//   - sessions       List stored sessions
//   - inspect        Decode a stored session and print a summary
//
// # Implementation
//
// The root command loads environment configuration and builds the stores
// before any subcommand runs, so handlers share one app context. Session
// bytes only leave the store sealed; inspect decodes them with the local
// identity and refuses sessions that belong to a different identity.
package commands

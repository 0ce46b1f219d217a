// Package app wires application dependencies for the CLI.
//
// It loads runtime configuration from the environment and builds the
// concrete stores, exposing them via the Wire struct for commands to use.
package app

// Package sfcli locates the Salesforce CLI on the host and executes its
// subcommands.
//
// The package provides:
// 1. Detector - best-effort search for a working sf/sfdx installation.
// 2. CLI - runs sf subcommands under a per-call timeout.
package sfcli

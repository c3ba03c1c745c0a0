// Package cli assembles the libkeeper root command: global GitHub and logging
// flags, layered configuration, and the find, properties, release and list
// subcommands.
package cli

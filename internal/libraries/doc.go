// Package libraries recognizes Arduino library repositories on GitHub and
// provides the find command that lists them for an account.
package libraries

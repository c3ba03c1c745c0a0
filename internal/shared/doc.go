// Package shared holds the pieces every libkeeper command needs: the reporter
// for decision lines, the GitHub connection settings, and the factory that
// turns those settings into an authenticated API client.
package shared

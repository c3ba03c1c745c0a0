// Package githubauth resolves GitHub credentials from token sources, the
// environment, or username and password settings, and builds authenticated
// HTTP clients for the REST transport.
package githubauth

// Package githubapi talks to the GitHub REST API for libkeeper workflows.
//
// Every request flows through the Transport abstraction (method, path, query,
// JSON body). RESTTransport backs it with go-github so that all commands share
// one authenticated HTTP client. Client layers typed operations on top and
// reports expected absence through Lookup values instead of errors.
package githubapi

// Package properties synthesizes library.properties records from repository
// metadata, keeps them in a local folder tree, and publishes them to GitHub
// without ever overwriting an existing file.
package properties

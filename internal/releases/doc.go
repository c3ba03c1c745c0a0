// Package releases makes sure every library repository has at least one
// tagged release so library indexers can pick it up.
package releases

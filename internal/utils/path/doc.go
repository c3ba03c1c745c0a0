// Package pathutils normalizes directory paths taken from flags and configuration.
package pathutils

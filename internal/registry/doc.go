// Package registry prints the clone URL listing submitted to the Arduino
// library registry.
package registry

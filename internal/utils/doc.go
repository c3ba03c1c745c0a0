// Package utils holds the configuration loader and logger factory shared by every libkeeper command.
package utils

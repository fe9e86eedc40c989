//go:build !linux && !darwin

package logger

import "io"

func isTerminal(io.Writer) bool {
	return false
}

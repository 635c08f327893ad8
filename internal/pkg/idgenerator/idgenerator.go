// nolint: gochecknoglobals
package idgenerator

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	RunIDLength  = 10
	RandomLength = 5
)

// alphabet used in ID generation.
var alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RunID identifies one orchestrator run in logs and telemetry.
func RunID() string {
	return gonanoid.MustGenerate(alphabet, RunIDLength)
}

// Random returns a random suffix of the given length.
func Random(length int) string {
	return gonanoid.MustGenerate(alphabet, length)
}

package helpers

import gonanoid "github.com/matoous/go-nanoid/v2"

// Generated shortlinks must already be in normalized form.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
const length = 7

// NewShortlink returns a random key for links created without one.
func NewShortlink() (string, error) {
	return gonanoid.Generate(alphabet, length)
}

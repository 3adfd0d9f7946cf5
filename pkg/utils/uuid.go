package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 16
)

// GenerateID gera identificadores seguros para nomes de arquivo e tokens
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}

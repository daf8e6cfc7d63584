package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 12)
}

// GeneratePrefixedID gera um identificador curto com prefixo legível, ex: val_4fZk9QxP2aLm
func GeneratePrefixedID(prefix string) (string, error) {
	id, err := GenerateID()
	if err != nil {
		return "", err
	}
	return prefix + "_" + id, nil
}

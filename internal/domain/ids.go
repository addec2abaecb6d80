package domain

import "github.com/google/uuid"

// ValidID indica si id tiene formato UUID; todas las claves primarias lo son.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

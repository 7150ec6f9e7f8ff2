package controllers

import "github.com/google/uuid"

func mustUUID() uuid.UUID {
	return uuid.New()
}

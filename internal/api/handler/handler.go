package handler

import (
	"civicpulse/backend/internal/extraction"
	"civicpulse/backend/internal/identity"
	"civicpulse/backend/internal/intake"
	"civicpulse/backend/internal/realtime"
	"civicpulse/backend/internal/status"
	"civicpulse/backend/internal/storage"
	"civicpulse/backend/internal/votes"
)

// Handler wires the HTTP surface to the lifecycle services.
type Handler struct {
	Intake    *intake.Service
	Status    *status.Manager
	Votes     *votes.Registry
	Assistant *extraction.Assistant
	Hub       *realtime.Hub
	Identity  *identity.Resolver
	Storage   storage.Storage
}

func NewHandler(
	intakeSvc *intake.Service,
	statusMgr *status.Manager,
	registry *votes.Registry,
	assistant *extraction.Assistant,
	hub *realtime.Hub,
	resolver *identity.Resolver,
	s storage.Storage,
) *Handler {
	return &Handler{
		Intake:    intakeSvc,
		Status:    statusMgr,
		Votes:     registry,
		Assistant: assistant,
		Hub:       hub,
		Identity:  resolver,
		Storage:   s,
	}
}

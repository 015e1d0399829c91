package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CriarCategoriaRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2,max=100"`
	Descricao *string `json:"descricao"`
}

type AtualizarCategoriaRequest struct {
	Nome      *string `json:"nome"      validate:"omitempty,min=2,max=100"`
	Descricao *string `json:"descricao"`
	Ativo     *bool   `json:"ativo"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Descricao *string   `json:"descricao,omitempty"`
	Ativo     bool      `json:"ativo"`
}

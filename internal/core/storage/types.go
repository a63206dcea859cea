// Package storage provides the storage type and key constants.
package storage

// Type represents the type of storage backend.
type Type string

const (
	// TypeRedis represents a Redis-backed durable store.
	TypeRedis Type = "redis"

	// TypeMemory represents an in-memory, process-lifetime store.
	TypeMemory Type = "memory"
)

// Keys owned by the console core. Every persisted value is JSON-encoded.
const (
	// KeyToken holds the bearer token (durable).
	KeyToken = "sri_token"

	// KeyUser holds the operator profile (durable).
	KeyUser = "sri_user"

	// KeySettings holds the operator settings record (durable).
	KeySettings = "sri_global_settings"

	// KeyParams holds the dropdown dictionaries and MEDDIC weights (durable).
	KeyParams = "sri_global_params"

	// KeyAuthUser is the legacy profile mirror (session-scoped).
	KeyAuthUser = "sri_auth_user"

	// KeyPattern matches every key owned by the console core.
	KeyPattern = "sri_*"
)

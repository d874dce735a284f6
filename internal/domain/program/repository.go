package program

import (
	"context"
)

// Repository is the persistence port for program snapshots. Implementations
// live in infrastructure; the domain only depends on this interface.
//
// The core assumes exclusive single-writer access per computation pass; the
// collaborator holding the snapshot serializes access.
type Repository interface {
	// Save persists the program, replacing any existing snapshot with the
	// same name.
	Save(ctx context.Context, p *Program) error

	// Load returns the program with the given name, or shared.ErrNotFound.
	Load(ctx context.Context, name string) (*Program, error)
}

// Package gateways defines contracts for external data sources.
package gateways

import (
	"context"
	"encoding/json"

	"github.com/troml/dev-status/internal/domain/entities"
)

// RegistryGateway fetches release and attestation data from a package
// registry. A project that does not exist is not an error: Snapshot
// returns Found=false and FetchProject returns nil data.
type RegistryGateway interface {
	// Snapshot retrieves and summarizes a project's registry presence.
	Snapshot(ctx context.Context, project string) (*entities.RegistrySnapshot, error)

	// FileHasAttestations probes the integrity endpoint for a single
	// distribution file. A 404 means the file is not attested and yields
	// (false, nil, nil).
	FileHasAttestations(ctx context.Context, project, version, filename string) (bool, json.RawMessage, error)
}

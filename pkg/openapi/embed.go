package openapi

import (
	"embed"
	"io/fs"
)

//go:embed contracts/*.yaml
var contracts embed.FS

// DefaultFile names the bundled users contract inside EmbeddedFS.
const DefaultFile = "users.openapi.yaml"

// DefaultOperationID is the operation whose request body defines the form.
const DefaultOperationID = "createUser"

// EmbeddedFS exposes the bundled contracts rooted at the contracts directory.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(contracts, "contracts")
	if err != nil {
		return contracts
	}
	return sub
}

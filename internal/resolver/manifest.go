// # internal/resolver/manifest.go
package resolver

import (
	"github.com/BurntSushi/toml"

	"extricrate/internal/errors"
)

const ManifestFile = "Cargo.toml"

// Manifest is the subset of Cargo.toml the resolver cares about.
type Manifest struct {
	Package ManifestPackage `toml:"package"`
}

type ManifestPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

// ReadManifest loads and decodes Cargo.toml from the crate root. A missing or
// undecodable manifest means the path is not a recognized crate.
func ReadManifest(tree FileTree) (*Manifest, error) {
	if !tree.Exists(ManifestFile) {
		return nil, errors.New(errors.CodeNotACrate, "no Cargo.toml at crate root")
	}

	data, err := tree.ReadFile(ManifestFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotACrate, "read Cargo.toml")
	}

	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, errors.Wrap(err, errors.CodeNotACrate, "decode Cargo.toml")
	}

	return &m, nil
}

package workspace

import (
	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

// PleiadesConfig is the server config whose deps table lists pleiades' dependencies,
// relative to the workspace root
const PleiadesConfig = "server/pleiades/Config.toml"

// ReadDeps returns the deps entry of a TOML config file
func ReadDeps(filename string) (interface{}, error) {
	var doc map[string]interface{}
	_, err := toml.DecodeFile(filename, &doc)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse %s", filename)
	}

	deps, ok := doc["deps"]
	if !ok {
		return nil, eris.Errorf("%s has no deps entry", filename)
	}

	return deps, nil
}

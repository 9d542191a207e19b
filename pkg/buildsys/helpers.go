package buildsys

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
)

// normalizePath resolves paths used in catalog scripts. Relative paths are relative to the script,
// paths starting with // are relative to the workspace root.
func normalizePath(ctx *parserCtx, pathList ...string) string {
	result := filepath.Dir(ctx.filepath)

	for _, path := range pathList {
		if strings.HasPrefix(path, "//") {
			result = filepath.Join(ctx.root, path[2:])
		} else if strings.HasPrefix(path, "/") {
			result = filepath.Join(filepath.VolumeName(result), path)
		} else if !filepath.IsAbs(path) {
			result = filepath.Join(result, path)
		} else {
			result = path
		}
	}

	return filepath.Clean(result)
}

// relativeToRoot turns an absolute path into a project path relative to the workspace root
func relativeToRoot(ctx *parserCtx, path string) (string, error) {
	rel, err := filepath.Rel(ctx.root, path)
	if err != nil {
		return "", eris.Wrapf(err, "%s is not inside the workspace", path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", eris.Errorf("%s is not inside the workspace %s", path, ctx.root)
	}

	return filepath.ToSlash(rel), nil
}

// yamlToStarlark converts a value decoded by yaml.v3 into its Starlark equivalent
func yamlToStarlark(value interface{}) (starlark.Value, error) {
	switch value := value.(type) {
	case nil:
		return starlark.None, nil
	case string:
		return starlark.String(value), nil
	case int:
		return starlark.MakeInt(value), nil
	case int64:
		return starlark.MakeInt64(value), nil
	case uint64:
		return starlark.MakeUint64(value), nil
	case bool:
		return starlark.Bool(value), nil
	case float64:
		return starlark.Float(value), nil
	case []interface{}:
		items := make([]starlark.Value, len(value))
		for idx, raw := range value {
			item, err := yamlToStarlark(raw)
			if err != nil {
				return nil, err
			}
			items[idx] = item
		}

		return starlark.NewList(items), nil
	case map[string]interface{}:
		dict := starlark.NewDict(len(value))
		for k, raw := range value {
			item, err := yamlToStarlark(raw)
			if err != nil {
				return nil, err
			}

			err = dict.SetKey(starlark.String(k), item)
			if err != nil {
				return nil, err
			}
		}

		return dict, nil
	}

	return nil, eris.Errorf("encountered unsupported type %T", value)
}

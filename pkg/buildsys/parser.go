package buildsys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
)

type parserCtx struct {
	ctx       context.Context
	filepath  string
	root      string
	projects  []*Project
	yamlCache map[string]interface{}
}

// * Helpers

func getCtx(thread *starlark.Thread) *parserCtx {
	return thread.Local("parserCtx").(*parserCtx)
}

type starlarkIterable interface {
	Len() int
	Iterate() starlark.Iterator
}

func starlarkIterable2stringSlice(input starlarkIterable, field string) ([]string, error) {
	if value, ok := input.(*starlark.List); ok && value == nil {
		return []string{}, nil
	}

	result := make([]string, 0, input.Len())
	iter := input.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		switch value := item.(type) {
		case starlark.String:
			result = append(result, value.GoString())
		default:
			return nil, eris.Errorf("expected all items in %s to be strings but found %s", field, item.Type())
		}
	}
	return result, nil
}

func scriptMessage(thread *starlark.Thread, msg string) string {
	ctx := getCtx(thread)
	pos := thread.CallFrame(1).Pos

	return fmt.Sprintf("%s:%d:%d: %s", filepath.Base(ctx.filepath), pos.Line, pos.Col, msg)
}

// * Builtin functions

func project(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var deps *starlark.List
	p := new(Project)

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &p.Name, "path?", &p.Path, "deps?", &deps,
		"build?", &p.Build, "clean?", &p.Clean, "generate?", &p.Generate, "lint?", &p.Lint)
	if err != nil {
		return nil, err
	}

	if p.Path == "" {
		p.Path = p.Name
	}

	p.Deps, err = starlarkIterable2stringSlice(deps, "deps")
	if err != nil {
		return nil, eris.Wrapf(err, "%s: invalid deps for project %s", fn.Name(), p.Name)
	}

	ctx := getCtx(thread)
	ctx.projects = append(ctx.projects, p)

	return starlark.String(p.Name), nil
}

// LoadCatalogScript executes a Starlark script and builds a catalog from the projects it declares
// through project(). Projects are registered in the order of their project() calls.
// Paths starting with // are resolved against root which defaults to the script's directory.
func LoadCatalogScript(ctx context.Context, filename, root string) (*Catalog, error) {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}

	if root == "" {
		root = filepath.Dir(filename)
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	builtins := starlark.StringDict{
		"OS":        starlark.String(runtime.GOOS),
		"ARCH":      starlark.String(runtime.GOARCH),
		"info":      starlark.NewBuiltin("info", starInfo),
		"warn":      starlark.NewBuiltin("warn", starWarn),
		"error":     starlark.NewBuiltin("error", starError),
		"getenv":    starlark.NewBuiltin("getenv", getenv),
		"path":      starlark.NewBuiltin("path", resolvePath),
		"isdir":     starlark.NewBuiltin("isdir", starIsdir),
		"isfile":    starlark.NewBuiltin("isfile", starIsfile),
		"read_yaml": starlark.NewBuiltin("read_yaml", readYaml),
		"project":   starlark.NewBuiltin("project", project),
	}

	thread := &starlark.Thread{
		Name: "catalog",
		Print: func(thread *starlark.Thread, msg string) {
			log(ctx).Info().Str("thread", thread.Name).Msg(msg)
		},
	}
	threadCtx := parserCtx{
		ctx:       ctx,
		filepath:  filename,
		root:      root,
		projects:  make([]*Project, 0),
		yamlCache: make(map[string]interface{}),
	}
	thread.SetLocal("parserCtx", &threadCtx)

	script, err := os.ReadFile(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read file %s", filename)
	}

	_, err = starlark.ExecFile(thread, filepath.Base(filename), script, builtins)
	if err != nil {
		if evalError, ok := err.(*starlark.EvalError); ok {
			return nil, eris.Errorf("failed to execute %s:\n%s", filepath.Base(filename), evalError.Backtrace())
		}
		return nil, eris.Wrapf(err, "failed to execute %s", filepath.Base(filename))
	}

	return NewCatalog(threadCtx.projects...)
}

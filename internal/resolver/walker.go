// # internal/resolver/walker.go
package resolver

import (
	"fmt"
	"path"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"extricrate/internal/errors"
	"extricrate/internal/observability"
	"extricrate/internal/syntax"
)

// Entry file candidates, in resolution order: binary target first, then
// library target.
var entryCandidates = []SourceFile{"src/main.rs", "src/lib.rs"}

// Walker traverses a crate's module tree breadth-first from its entry file,
// following declared-but-unvisited sub-modules, and produces the ImportIndex.
// One walk per crate snapshot; no state survives between walks.
type Walker struct {
	tree FileTree
}

func NewWalker(tree FileTree) *Walker {
	return &Walker{tree: tree}
}

type workItem struct {
	file  SourceFile
	chain []string // module-name segments below the crate root
}

// Walk produces a complete ImportIndex or a typed error. Any failure aborts
// the whole run: a graph missing arbitrary nodes is worse than no graph.
func (w *Walker) Walk() (ImportIndex, error) {
	if !w.tree.Exists(ManifestFile) {
		return nil, errors.New(errors.CodeNotACrate, "no Cargo.toml at crate root")
	}

	entry, ok := w.findEntryFile()
	if !ok {
		return nil, errors.New(errors.CodeNoEntryFile, "neither src/main.rs nor src/lib.rs exists")
	}

	index := make(ImportIndex)
	visited := make(map[SourceFile]bool)
	queue := []workItem{{file: entry}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		// Duplicate mod declarations may enqueue a file twice; module
		// identity was captured on first visit, so later hits are skipped
		// rather than treated as new branches.
		if visited[item.file] {
			continue
		}

		if !w.tree.Exists(string(item.file)) {
			return nil, errors.AddContext(
				errors.New(errors.CodeFileNotFound, "referenced file does not exist"),
				errors.CtxPath, string(item.file))
		}

		source, err := w.tree.ReadFile(string(item.file))
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeReadFailed, "read source file"),
				errors.CtxPath, string(item.file))
		}

		parseStart := time.Now()
		tree, err := syntax.ParseRust(source)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxPath, string(item.file))
		}
		observability.ParsingDuration.Observe(time.Since(parseStart).Seconds())

		visit := &fileVisitor{tree: tree}
		visit.walk(tree.Root(), item.chain, moduleDir(item.file))
		tree.Close()

		for _, mod := range visit.external {
			file, err := w.resolveModuleFile(mod)
			if err != nil {
				return nil, err
			}
			queue = append(queue, workItem{file: file, chain: mod.chain})
		}

		index[item.file] = visit.records
		visited[item.file] = true
		observability.FilesWalked.Inc()
	}

	return index, nil
}

func (w *Walker) findEntryFile() (SourceFile, bool) {
	for _, candidate := range entryCandidates {
		if w.tree.Exists(string(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// resolveModuleFile maps an external mod declaration to a file: a same-name
// .rs file, else the module directory's mod.rs.
func (w *Walker) resolveModuleFile(mod externalModule) (SourceFile, error) {
	candidates := []string{
		path.Join(mod.dir, mod.name+".rs"),
		path.Join(mod.dir, mod.name, "mod.rs"),
	}
	for _, candidate := range candidates {
		if w.tree.Exists(candidate) {
			return SourceFile(candidate), nil
		}
	}
	return "", errors.AddContext(
		errors.New(errors.CodeModuleFileMissing,
			fmt.Sprintf("declared module %q has no corresponding file", mod.name)),
		errors.CtxModule, mod.name)
}

// moduleDir is the directory a file's child modules resolve against. Entry
// files and mod.rs own their containing directory; foo.rs children live
// under foo/.
func moduleDir(file SourceFile) string {
	dir := path.Dir(string(file))
	base := path.Base(string(file))
	switch base {
	case "main.rs", "lib.rs", "mod.rs":
		return dir
	}
	return path.Join(dir, strings.TrimSuffix(base, ".rs"))
}

// externalModule is a mod declaration without a body, pending file
// resolution.
type externalModule struct {
	name  string
	chain []string
	dir   string
}

// fileVisitor runs the single pass over one parsed file: it collects use
// declarations flattened against the live ancestor chain and records declared
// sub-modules, entering inline bodies directly.
type fileVisitor struct {
	tree     *syntax.Tree
	records  []ModuleImportRecord
	external []externalModule
}

// walk threads chain and dir as immutable parameters per recursive call;
// sibling branches never observe each other's segments.
func (v *fileVisitor) walk(node *sitter.Node, chain []string, dir string) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "use_declaration":
		argument := node.ChildByFieldName("argument")
		leaves := FlattenUseTree(chain, v.useTreeFrom(argument))
		v.records = append(v.records, ModuleImportRecord{
			Module: declaringModule(chain),
			Declaration: ImportDeclaration{
				Leaves: leaves,
				Span:   syntax.NodeSpan(node),
			},
		})
		return

	case "mod_item":
		name := v.tree.FieldText(node, "name")
		if name == "" {
			return
		}
		body := node.ChildByFieldName("body")
		if body == nil {
			// External module; the walker resolves its file later.
			v.external = append(v.external, externalModule{
				name:  name,
				chain: extendChain(chain, name),
				dir:   dir,
			})
			return
		}
		childChain := extendChain(chain, name)
		childDir := path.Join(dir, name)
		for i := uint(0); i < body.ChildCount(); i++ {
			v.walk(body.Child(i), childChain, childDir)
		}
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		v.walk(node.Child(i), chain, dir)
	}
}

// useTreeFrom converts a tree-sitter use clause into the flattener's input
// shape.
func (v *fileVisitor) useTreeFrom(node *sitter.Node) *UseTree {
	if node == nil {
		return nil
	}

	switch node.Kind() {
	case "identifier", "crate", "self", "super", "metavariable":
		return pathAsTree(v.tree.Text(node), nil)

	case "scoped_identifier":
		return pathAsTree(v.tree.Text(node), nil)

	case "use_as_clause":
		alias := v.tree.FieldText(node, "alias")
		return pathAsTree(v.tree.FieldText(node, "path"), &alias)

	case "use_list":
		group := &UseTree{Kind: UseGroup}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch child.Kind() {
			case "line_comment", "block_comment":
				continue
			}
			group.Children = append(group.Children, v.useTreeFrom(child))
		}
		return group

	case "scoped_use_list":
		segments := splitPath(v.tree.FieldText(node, "path"))
		return PathTree(segments, v.useTreeFrom(node.ChildByFieldName("list")))

	case "use_wildcard":
		var segments []string
		if node.NamedChildCount() > 0 {
			segments = splitPath(v.tree.Text(node.NamedChild(0)))
		}
		return PathTree(segments, &UseTree{Kind: UseGlob})
	}

	// Unknown clause shapes degrade to a plain path.
	return pathAsTree(v.tree.Text(node), nil)
}

// pathAsTree turns "a::b::c" into nested path segments around a name leaf,
// or a rename leaf when alias is set.
func pathAsTree(text string, alias *string) *UseTree {
	segments := splitPath(text)
	if len(segments) == 0 {
		return nil
	}
	last := segments[len(segments)-1]
	var leaf *UseTree
	if alias != nil {
		leaf = &UseTree{Kind: UseRename, Name: last, Alias: *alias}
	} else {
		leaf = &UseTree{Kind: UseName, Name: last}
	}
	return PathTree(segments[:len(segments)-1], leaf)
}

func splitPath(text string) []string {
	parts := strings.Split(text, PathSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func declaringModule(chain []string) ModulePath {
	segments := make([]string, 0, len(chain)+1)
	segments = append(segments, rootSegment)
	segments = append(segments, chain...)
	return JoinPath(segments...)
}

func extendChain(chain []string, name string) []string {
	out := make([]string, 0, len(chain)+1)
	out = append(out, chain...)
	out = append(out, name)
	return out
}

package scanner

import (
	"path"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"depmap/internal/graph"
)

// decoratorKinds maps an Angular decorator to the entity kind it fixes.
var decoratorKinds = map[string]graph.Kind{
	"Component":  graph.KindComponent,
	"Injectable": graph.KindService,
	"Directive":  graph.KindDirective,
	"Pipe":       graph.KindPipe,
}

type declaration struct {
	name     string
	kind     graph.Kind
	exported bool
}

// extractor walks one parsed file. Only direct children of the program node
// produce declarations; bodies, namespaces, and type positions are ignored.
type extractor struct {
	source []byte
	file   string
	worker bool
	result *FileResult

	decls []declaration
}

func (x *extractor) run(root *tree_sitter.Node) {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		switch node.Kind() {
		case "import_statement":
			x.importStatement(node)
		case "export_statement":
			x.exportStatement(node)
		default:
			if name, kind, ok := x.declarationInfo(node, ""); ok {
				x.addDecl(name, kind, false)
			} else {
				x.declarators(node, false)
			}
		}
	}

	x.lazyImports(root)
	x.emitEntities()
}

// addDecl records a top-level declaration, merging the exported flag when
// the same name shows up again (overload signatures, declaration merging).
func (x *extractor) addDecl(name string, kind graph.Kind, exported bool) {
	if name == "" {
		return
	}
	if x.worker {
		kind = graph.KindWorker
	}
	for i := range x.decls {
		if x.decls[i].name == name {
			x.decls[i].exported = x.decls[i].exported || exported
			return
		}
	}
	x.decls = append(x.decls, declaration{name: name, kind: kind, exported: exported})
}

func (x *extractor) emitEntities() {
	for _, d := range x.decls {
		if !d.exported {
			continue
		}
		x.result.Entities = append(x.result.Entities, graph.NewEntity(d.name, d.kind, x.file, true))
	}
}

// declarationInfo classifies a single-name declaration node. Multi-binding
// forms (const lists) go through declarators instead.
func (x *extractor) declarationInfo(node *tree_sitter.Node, decorated graph.Kind) (string, graph.Kind, bool) {
	var kind graph.Kind
	switch node.Kind() {
	case "class_declaration", "abstract_class_declaration":
		kind = graph.KindClass
		if d := x.decoratorKind(node); d != "" {
			kind = d
		}
		if decorated != "" {
			kind = decorated
		}
	case "interface_declaration":
		kind = graph.KindInterface
	case "type_alias_declaration":
		kind = graph.KindType
	case "enum_declaration":
		kind = graph.KindEnum
	case "function_declaration", "generator_function_declaration", "function_signature":
		kind = graph.KindFunction
	default:
		return "", "", false
	}

	name := x.fieldText(node, "name")
	return name, kind, name != ""
}

// declarators handles lexical/variable declarations, one entity per binding.
// Arrow functions and function expressions count as functions.
func (x *extractor) declarators(node *tree_sitter.Node, exported bool) {
	if node.Kind() != "lexical_declaration" && node.Kind() != "variable_declaration" {
		return
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			continue
		}

		kind := graph.KindConst
		if value := child.ChildByFieldName("value"); value != nil {
			switch value.Kind() {
			case "arrow_function", "function_expression", "function":
				kind = graph.KindFunction
			}
		}
		x.addDecl(nameNode.Utf8Text(x.source), kind, exported)
	}
}

func (x *extractor) exportStatement(node *tree_sitter.Node) {
	decorated := x.decoratorKind(node)
	source := x.sourceSpecifier(node)
	isDefault := x.hasToken(node, "default")

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		if name, kind, ok := x.declarationInfo(decl, decorated); ok {
			x.addDecl(name, kind, true)
			if isDefault {
				x.addDecl("default", kind, true)
			}
		} else if isDefault {
			// export default class {} / function () {} without a name
			kind := graph.KindClass
			if strings.Contains(decl.Kind(), "function") {
				kind = graph.KindFunction
			}
			x.addDecl(camelBasename(x.file), kind, true)
		} else {
			x.declarators(decl, true)
		}
		return
	}

	if isDefault {
		x.exportDefaultValue(node)
		return
	}

	if source != "" && (x.hasToken(node, "*") || x.hasNamedChild(node, "namespace_export")) {
		x.result.ReExports = append(x.result.ReExports, ReExport{
			File:     x.file,
			Source:   source,
			Wildcard: true,
		})
		return
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "export_clause" {
			continue
		}
		names := x.exportSpecifiers(child)
		if source != "" {
			x.result.ReExports = append(x.result.ReExports, ReExport{
				File:   x.file,
				Source: source,
				Names:  names,
			})
		} else {
			// Bare export { A, B as C }: promotes earlier declarations.
			for _, n := range names {
				x.promote(n.Local)
			}
		}
	}
}

// exportDefaultValue handles `export default <expr>`. A bare identifier
// promotes the declaration it names; anything else becomes an entity named
// after the file.
func (x *extractor) exportDefaultValue(node *tree_sitter.Node) {
	var value *tree_sitter.Node
	if v := node.ChildByFieldName("value"); v != nil {
		value = v
	} else {
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Kind() != "decorator" && child.Kind() != "comment" {
				value = child
				break
			}
		}
	}
	if value == nil {
		return
	}

	if value.Kind() == "identifier" {
		name := value.Utf8Text(x.source)
		kind := x.declaredKind(name)
		x.promote(name)
		x.addDecl("default", kind, true)
		return
	}

	kind := graph.KindConst
	switch value.Kind() {
	case "class", "class_declaration":
		kind = graph.KindClass
	case "arrow_function", "function_expression", "function", "function_declaration":
		kind = graph.KindFunction
	}
	x.addDecl(camelBasename(x.file), kind, true)
}

func (x *extractor) promote(name string) {
	for i := range x.decls {
		if x.decls[i].name == name {
			x.decls[i].exported = true
			return
		}
	}
}

func (x *extractor) declaredKind(name string) graph.Kind {
	for _, d := range x.decls {
		if d.name == name {
			return d.kind
		}
	}
	return graph.KindConst
}

func (x *extractor) exportSpecifiers(clause *tree_sitter.Node) []ReExportName {
	var names []ReExportName
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		spec := clause.NamedChild(i)
		if spec.Kind() != "export_specifier" {
			continue
		}
		local := x.fieldText(spec, "name")
		exported := x.fieldText(spec, "alias")
		if exported == "" {
			exported = local
		}
		if local != "" {
			names = append(names, ReExportName{Exported: exported, Local: local})
		}
	}
	return names
}

func (x *extractor) importStatement(node *tree_sitter.Node) {
	imp := Import{
		File:      x.file,
		Specifier: x.sourceSpecifier(node),
		TypeOnly:  x.hasToken(node, "type"),
	}
	if imp.Specifier == "" {
		return
	}

	var clause *tree_sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "import_clause" {
			clause = child
			break
		}
	}

	if clause == nil {
		imp.SideEffect = true
		x.result.Imports = append(x.result.Imports, imp)
		return
	}

	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			imp.Default = child.Utf8Text(x.source)
		case "namespace_import":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if inner := child.NamedChild(j); inner.Kind() == "identifier" {
					imp.Namespace = inner.Utf8Text(x.source)
				}
			}
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				imported := x.fieldText(spec, "name")
				local := x.fieldText(spec, "alias")
				if local == "" {
					local = imported
				}
				if imported == "" {
					continue
				}
				imp.Bindings = append(imp.Bindings, Binding{
					Imported: imported,
					Local:    local,
					TypeOnly: imp.TypeOnly || x.hasToken(spec, "type"),
				})
			}
		}
	}

	x.result.Imports = append(x.result.Imports, imp)
}

// lazyImports finds Angular route-style dynamic imports anywhere in the
// file: import('./x.module').then(m => m.XModule).
func (x *extractor) lazyImports(node *tree_sitter.Node) {
	if node.Kind() == "call_expression" {
		if spec, name, ok := x.lazyImport(node); ok {
			x.result.Imports = append(x.result.Imports, Import{
				File:      x.file,
				Specifier: spec,
				Bindings:  []Binding{{Imported: name, Local: name}},
				Lazy:      true,
			})
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		x.lazyImports(node.NamedChild(i))
	}
}

func (x *extractor) lazyImport(call *tree_sitter.Node) (spec, name string, ok bool) {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "import" {
		return "", "", false
	}

	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", "", false
	}
	for i := uint(0); i < args.NamedChildCount(); i++ {
		if arg := args.NamedChild(i); arg.Kind() == "string" {
			spec = x.stringText(arg)
			break
		}
	}
	if spec == "" {
		return "", "", false
	}

	member := call.Parent()
	if member == nil || member.Kind() != "member_expression" {
		return "", "", false
	}
	if prop := member.ChildByFieldName("property"); prop == nil || prop.Utf8Text(x.source) != "then" {
		return "", "", false
	}
	thenCall := member.Parent()
	if thenCall == nil || thenCall.Kind() != "call_expression" {
		return "", "", false
	}
	thenArgs := thenCall.ChildByFieldName("arguments")
	if thenArgs == nil {
		return "", "", false
	}

	for i := uint(0); i < thenArgs.NamedChildCount(); i++ {
		arg := thenArgs.NamedChild(i)
		if arg.Kind() != "arrow_function" {
			continue
		}
		body := arg.ChildByFieldName("body")
		if body == nil || body.Kind() != "member_expression" {
			continue
		}
		if prop := body.ChildByFieldName("property"); prop != nil {
			return spec, prop.Utf8Text(x.source), true
		}
	}

	return "", "", false
}

// decoratorKind returns the entity kind fixed by the first recognized
// decorator among node's own children. For export statements the caller
// checks the statement and, through declarationInfo, the wrapped declaration.
func (x *extractor) decoratorKind(node *tree_sitter.Node) graph.Kind {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "decorator" {
			continue
		}
		if kind, ok := decoratorKinds[x.decoratorName(child)]; ok {
			return kind
		}
	}
	return ""
}

func (x *extractor) decoratorName(dec *tree_sitter.Node) string {
	for i := uint(0); i < dec.NamedChildCount(); i++ {
		child := dec.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			return child.Utf8Text(x.source)
		case "call_expression":
			if fn := child.ChildByFieldName("function"); fn != nil {
				return fn.Utf8Text(x.source)
			}
		}
	}
	return ""
}

// sourceSpecifier returns the unquoted module specifier of an import or
// export statement, or "".
func (x *extractor) sourceSpecifier(node *tree_sitter.Node) string {
	if src := node.ChildByFieldName("source"); src != nil {
		return x.stringText(src)
	}
	return ""
}

func (x *extractor) stringText(str *tree_sitter.Node) string {
	for i := uint(0); i < str.NamedChildCount(); i++ {
		if frag := str.NamedChild(i); frag.Kind() == "string_fragment" {
			return frag.Utf8Text(x.source)
		}
	}
	return ""
}

// hasToken reports whether node carries an anonymous token of the given
// kind (`default`, `type`, `*`).
func (x *extractor) hasToken(node *tree_sitter.Node, token string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

func (x *extractor) hasNamedChild(node *tree_sitter.Node, kind string) bool {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if node.NamedChild(i).Kind() == kind {
			return true
		}
	}
	return false
}

// fieldText reads a named field's text, or "".
func (x *extractor) fieldText(node *tree_sitter.Node, field string) string {
	if child := node.ChildByFieldName(field); child != nil {
		return child.Utf8Text(x.source)
	}
	return ""
}

// camelBasename turns a file name like app-routing.module.ts into
// appRoutingModule, the documented name for anonymous default exports.
func camelBasename(file string) string {
	base := path.Base(file)
	base = strings.TrimSuffix(base, ".tsx")
	base = strings.TrimSuffix(base, ".ts")

	var b strings.Builder
	upper := false
	for _, r := range base {
		switch r {
		case '-', '_', '.':
			upper = true
		default:
			if upper && b.Len() > 0 {
				b.WriteString(strings.ToUpper(string(r)))
			} else {
				b.WriteRune(r)
			}
			upper = false
		}
	}
	return b.String()
}

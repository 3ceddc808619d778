// Package graph holds the entity catalog, the dependency graph derived from
// imports, and the traversal algorithms behind the query commands.
package graph

import (
	"fmt"
	"strings"

	"depmap/util"
)

// Kind classifies a top-level exported declaration.
type Kind string

const (
	KindClass     Kind = "class"
	KindComponent Kind = "component"
	KindService   Kind = "service"
	KindDirective Kind = "directive"
	KindPipe      Kind = "pipe"
	KindEnum      Kind = "enum"
	KindType      Kind = "type"
	KindInterface Kind = "interface"
	KindFunction  Kind = "function"
	KindConst     Kind = "const"
	KindWorker    Kind = "worker"
)

// AllKinds lists every kind in display order.
var AllKinds = []Kind{
	KindClass, KindComponent, KindService, KindDirective, KindPipe,
	KindEnum, KindType, KindInterface, KindFunction, KindConst, KindWorker,
}

// ParseKinds parses a comma-separated kind list as given on the command line.
func ParseKinds(s string) ([]Kind, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var kinds []Kind
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for _, k := range AllKinds {
			if string(k) == part {
				kinds = append(kinds, k)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown entity type %q", part)
		}
	}
	return kinds, nil
}

// Entity is a top-level exported declaration in a workspace file.
type Entity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	File     string `json:"file"`
	Exported bool   `json:"-"`
}

// NewEntity builds an entity with its deterministic id.
func NewEntity(name string, kind Kind, file string, exported bool) Entity {
	return Entity{
		ID:       util.EntityID(file, name),
		Name:     name,
		Kind:     kind,
		File:     file,
		Exported: exported,
	}
}

// Row renders the tab-separated form used by query, unused, and affected.
func (e *Entity) Row() string {
	return fmt.Sprintf("%s\t%s\t%s", e.Name, e.Kind, e.File)
}

// Edge is a consumer → dependency relation between two entities.
type Edge struct {
	Source string
	Target string
}

// less orders entities by (name, file), the sort used for all row output.
func less(a, b *Entity) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.File < b.File
}

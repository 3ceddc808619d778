package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"depmap/internal/graph"
	"depmap/internal/workspace"
)

func parseSource(t *testing.T, id string, class workspace.FileClass, content string) FileResult {
	t.Helper()
	abs := filepath.Join(t.TempDir(), filepath.Base(id))
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	res := parseFile(workspace.File{ID: id, Abs: abs, Class: class})
	if res.Err != nil {
		t.Fatalf("parse failed: %v", res.Err)
	}
	return res
}

func entityKinds(res FileResult) map[string]graph.Kind {
	kinds := make(map[string]graph.Kind)
	for _, e := range res.Entities {
		kinds[e.Name] = e.Kind
	}
	return kinds
}

func TestExtractDecoratedClasses(t *testing.T) {
	res := parseSource(t, "libs/user/src/user.service.ts", workspace.ClassSource, `
import { Injectable } from '@angular/core';

@Injectable({ providedIn: 'root' })
export class UserService {}
`)

	kinds := entityKinds(res)
	if kinds["UserService"] != graph.KindService {
		t.Errorf("expected service, got %s", kinds["UserService"])
	}
}

func TestExtractComponentAndDirectiveAndPipe(t *testing.T) {
	res := parseSource(t, "apps/web/src/pieces.ts", workspace.ClassSource, `
import { Component, Directive, Pipe } from '@angular/core';

@Component({ selector: 'app-root', template: '' })
export class AppComponent {}

@Directive({ selector: '[appFocus]' })
export class FocusDirective {}

@Pipe({ name: 'shorten' })
export class ShortenPipe {}

export class PlainClass {}
`)

	kinds := entityKinds(res)
	if kinds["AppComponent"] != graph.KindComponent {
		t.Errorf("AppComponent: %s", kinds["AppComponent"])
	}
	if kinds["FocusDirective"] != graph.KindDirective {
		t.Errorf("FocusDirective: %s", kinds["FocusDirective"])
	}
	if kinds["ShortenPipe"] != graph.KindPipe {
		t.Errorf("ShortenPipe: %s", kinds["ShortenPipe"])
	}
	if kinds["PlainClass"] != graph.KindClass {
		t.Errorf("PlainClass: %s", kinds["PlainClass"])
	}
}

func TestExtractDeclarationForms(t *testing.T) {
	res := parseSource(t, "libs/util/src/forms.ts", workspace.ClassSource, `
export enum Color { Red, Green }
export type ID = string;
export interface User { id: ID; }
export function helperFn(): void {}
export const MAX_USERS = 10;
export const doubler = (x: number) => x * 2;
export const a = 1, b = 2;
`)

	kinds := entityKinds(res)
	want := map[string]graph.Kind{
		"Color":     graph.KindEnum,
		"ID":        graph.KindType,
		"User":      graph.KindInterface,
		"helperFn":  graph.KindFunction,
		"MAX_USERS": graph.KindConst,
		"doubler":   graph.KindFunction,
		"a":         graph.KindConst,
		"b":         graph.KindConst,
	}
	for name, kind := range want {
		if kinds[name] != kind {
			t.Errorf("%s: got %s, want %s", name, kinds[name], kind)
		}
	}
	if len(res.Entities) != len(want) {
		t.Errorf("expected %d entities, got %d", len(want), len(res.Entities))
	}
}

func TestExtractIgnoresUnexportedAndNested(t *testing.T) {
	res := parseSource(t, "libs/util/src/private.ts", workspace.ClassSource, `
const internal = 1;
class Hidden {}
export function visible() {
  function nested() {}
  const inner = 2;
}
`)

	kinds := entityKinds(res)
	if len(res.Entities) != 1 || kinds["visible"] != graph.KindFunction {
		t.Errorf("expected only the exported function, got %v", kinds)
	}
}

func TestExtractBareExportClausePromotes(t *testing.T) {
	res := parseSource(t, "libs/util/src/late.ts", workspace.ClassSource, `
const hidden = 1;
class LateClass {}
export { hidden, LateClass as Late };
`)

	kinds := entityKinds(res)
	if kinds["hidden"] != graph.KindConst {
		t.Errorf("hidden: %v", kinds)
	}
	if kinds["LateClass"] != graph.KindClass {
		t.Errorf("LateClass: %v", kinds)
	}
}

func TestExtractDefaultExportClass(t *testing.T) {
	res := parseSource(t, "libs/util/src/thing.ts", workspace.ClassSource, `
export default class Thing {}
`)

	kinds := entityKinds(res)
	if _, ok := kinds["Thing"]; !ok {
		t.Errorf("named entity missing: %v", kinds)
	}
	if _, ok := kinds["default"]; !ok {
		t.Errorf("default entity missing: %v", kinds)
	}
}

func TestExtractAnonymousDefaultUsesBasename(t *testing.T) {
	res := parseSource(t, "apps/web/src/app-routing.module.ts", workspace.ClassSource, `
export default function () {}
`)

	kinds := entityKinds(res)
	if kinds["appRoutingModule"] != graph.KindFunction {
		t.Errorf("expected camelCased basename entity, got %v", kinds)
	}
}

func TestExtractWorkerFileOverridesKind(t *testing.T) {
	res := parseSource(t, "libs/data/src/data.worker.ts", workspace.ClassWorker, `
export class DataLoader {}
export function crunch() {}
`)

	for name, kind := range entityKinds(res) {
		if kind != graph.KindWorker {
			t.Errorf("%s: got %s, want worker", name, kind)
		}
	}
}

func TestExtractImportForms(t *testing.T) {
	res := parseSource(t, "apps/web/src/app.component.ts", workspace.ClassSource, `
import Def from './default-thing';
import { UserService } from './user.service';
import { Widget as W, Gadget } from './widgets';
import * as models from './models';
import './polyfills';
import type { Config } from './config';
`)

	if len(res.Imports) != 6 {
		t.Fatalf("expected 6 imports, got %d", len(res.Imports))
	}

	bySpec := make(map[string]Import)
	for _, imp := range res.Imports {
		bySpec[imp.Specifier] = imp
	}

	if imp := bySpec["./default-thing"]; imp.Default != "Def" {
		t.Errorf("default import: %+v", imp)
	}

	if imp := bySpec["./user.service"]; len(imp.Bindings) != 1 ||
		imp.Bindings[0].Imported != "UserService" || imp.Bindings[0].Local != "UserService" {
		t.Errorf("named import: %+v", imp)
	}

	imp := bySpec["./widgets"]
	if len(imp.Bindings) != 2 {
		t.Fatalf("aliased import: %+v", imp)
	}
	if imp.Bindings[0].Imported != "Widget" || imp.Bindings[0].Local != "W" {
		t.Errorf("alias distinction lost: %+v", imp.Bindings[0])
	}

	if imp := bySpec["./models"]; imp.Namespace != "models" {
		t.Errorf("namespace import: %+v", imp)
	}

	if imp := bySpec["./polyfills"]; !imp.SideEffect {
		t.Errorf("side-effect import: %+v", imp)
	}

	if imp := bySpec["./config"]; !imp.TypeOnly {
		t.Errorf("type-only import not tagged: %+v", imp)
	}
}

func TestExtractReExports(t *testing.T) {
	res := parseSource(t, "libs/user/src/index.ts", workspace.ClassSource, `
export * from './user.service';
export { UserModel, UserRole as Role } from './models';
`)

	if len(res.ReExports) != 2 {
		t.Fatalf("expected 2 re-exports, got %d", len(res.ReExports))
	}

	var wildcard, named *ReExport
	for i := range res.ReExports {
		if res.ReExports[i].Wildcard {
			wildcard = &res.ReExports[i]
		} else {
			named = &res.ReExports[i]
		}
	}

	if wildcard == nil || wildcard.Source != "./user.service" {
		t.Errorf("wildcard re-export: %+v", res.ReExports)
	}
	if named == nil || named.Source != "./models" || len(named.Names) != 2 {
		t.Fatalf("named re-export: %+v", res.ReExports)
	}
	if named.Names[1].Local != "UserRole" || named.Names[1].Exported != "Role" {
		t.Errorf("alias mapping: %+v", named.Names[1])
	}
}

func TestExtractLazyRouteImport(t *testing.T) {
	res := parseSource(t, "apps/web/src/app-routing.module.ts", workspace.ClassSource, `
const routes = [
  {
    path: 'auth',
    loadChildren: () => import('./auth/auth.module').then(m => m.AuthModule)
  },
  {
    path: 'dashboard',
    loadChildren: () => import('./dashboard/dashboard.module').then(mod => mod.DashboardModule)
  }
];
`)

	var lazy []Import
	for _, imp := range res.Imports {
		if imp.Lazy {
			lazy = append(lazy, imp)
		}
	}

	if len(lazy) != 2 {
		t.Fatalf("expected 2 lazy imports, got %d", len(lazy))
	}
	if lazy[0].Specifier != "./auth/auth.module" || lazy[0].Bindings[0].Imported != "AuthModule" {
		t.Errorf("first lazy import: %+v", lazy[0])
	}
	if lazy[1].Bindings[0].Imported != "DashboardModule" {
		t.Errorf("second lazy import: %+v", lazy[1])
	}
}

func TestExtractToleratesSyntaxErrors(t *testing.T) {
	res := parseSource(t, "libs/util/src/broken.ts", workspace.ClassSource, `
export class Good {}
export clss Broken {
`)

	kinds := entityKinds(res)
	if _, ok := kinds["Good"]; !ok {
		t.Errorf("extraction should survive syntax errors, got %v", kinds)
	}
}

func TestCamelBasename(t *testing.T) {
	cases := map[string]string{
		"apps/web/src/app-routing.module.ts": "appRoutingModule",
		"libs/user/src/user_service.ts":      "userService",
		"libs/simple.ts":                     "simple",
	}
	for file, want := range cases {
		if got := camelBasename(file); got != want {
			t.Errorf("%s: got %s, want %s", file, got, want)
		}
	}
}

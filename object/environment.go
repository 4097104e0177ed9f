// ----------------------------------------------------------------------------
// FILE: object/environment.go
// ----------------------------------------------------------------------------
// PACKAGE: object
// PURPOSE: Scope (the spec's "Context"): a lexically nested binding
//          environment with declared types, function records, loop/function
//          flags, per-function imports, and a per-binding watch set.
// ----------------------------------------------------------------------------

package object

import "fmt"

type importRecord struct {
	mutable bool
	owner   *Scope
}

// Scope is one lexically nested binding environment: the program's single
// top-level scope, or a scope created at function entry or block entry
// (if/else/while/for/foreach body).
type Scope struct {
	variables map[string]Value
	types     map[string]string
	functions map[string]*Function

	parent *Scope

	// boundary is the nearest enclosing function-entry scope, or nil at
	// top level. isBoundary is true exactly when this scope IS that entry
	// scope (boundary == this). Plain-name resolution stops climbing past
	// a boundary scope; only imported_vars may cross it.
	boundary   *Scope
	isBoundary bool
	funcName   string

	inLoop bool

	importedVars map[string]*importRecord
	watchedVars  map[string]bool
	readOnly     map[string]bool
}

// NewGlobalScope returns the single top-level scope for a program run.
func NewGlobalScope() *Scope {
	return &Scope{
		variables: make(map[string]Value),
		types:     make(map[string]string),
		functions: make(map[string]*Function),
		funcName:  "global",
	}
}

// NewChildBlock creates a scope for entering a block (if/else/while/for/
// foreach body) nested inside s. It inherits s's function boundary.
func (s *Scope) NewChildBlock(isLoop bool) *Scope {
	return &Scope{
		variables: make(map[string]Value),
		types:     make(map[string]string),
		functions: make(map[string]*Function),
		parent:    s,
		boundary:  s.boundary,
		inLoop:    isLoop,
		funcName:  s.funcName,
	}
}

// NewFunctionScope creates the entry scope for a function call. defn is the
// scope the function closed over (where it was defined); parent here is set
// to defn so identifier lookups that escape to imports resolve against the
// function's lexical definition site, matching closure semantics.
func NewFunctionScope(defn *Scope, funcName string) *Scope {
	s := &Scope{
		variables:    make(map[string]Value),
		types:        make(map[string]string),
		functions:    make(map[string]*Function),
		parent:       defn,
		importedVars: make(map[string]*importRecord),
		funcName:     funcName,
	}
	s.boundary = s
	s.isBoundary = true
	return s
}

// InFunction reports whether this scope is inside a function body.
func (s *Scope) InFunction() bool { return s.boundary != nil }

// FunctionName returns the name of the enclosing function, or "global".
func (s *Scope) FunctionName() string {
	if s.boundary != nil {
		return s.boundary.funcName
	}
	return "global"
}

// InLoop reports whether this scope is nested inside a loop body without
// crossing an intervening function boundary.
func (s *Scope) InLoop() bool {
	cur := s
	for cur != nil {
		if cur.inLoop {
			return true
		}
		if cur.isBoundary {
			return false
		}
		cur = cur.parent
	}
	return false
}

// Define installs a new binding in the CURRENT scope. Redeclaring a name
// already local to this scope is rejected outside functions; inside a
// function body a redeclaration is treated as an intentional shadow.
func (s *Scope) Define(name string, value Value, declaredType string) error {
	if _, exists := s.variables[name]; exists && !s.InFunction() {
		return fmt.Errorf("%s already declared", name)
	}
	s.variables[name] = value
	if declaredType != "" {
		s.types[name] = declaredType
	}
	return nil
}

// Assign writes to an existing binding: a local (found by walking up to,
// but not past, a function boundary), or — at a function boundary — an
// imported name, subject to its recorded mutability.
func (s *Scope) Assign(name string, value Value) error {
	cur := s
	for cur != nil {
		if _, ok := cur.variables[name]; ok {
			if cur.readOnly != nil && cur.readOnly[name] {
				return fmt.Errorf("cannot modify immutable import '%s'", name)
			}
			if dt, ok2 := cur.types[name]; ok2 && dt != "" && dt != "dynamic" && TypeName(value) != dt {
				return fmt.Errorf("cannot assign %s to %s variable %s", TypeName(value), dt, name)
			}
			cur.variables[name] = value
			return nil
		}
		if cur.isBoundary {
			if imp, ok := cur.importedVars[name]; ok {
				if !imp.mutable {
					return fmt.Errorf("cannot modify immutable import '%s'", name)
				}
				owner := imp.owner
				if dt, ok2 := owner.types[name]; ok2 && dt != "" && dt != "dynamic" && TypeName(value) != dt {
					return fmt.Errorf("cannot assign %s to %s variable %s", TypeName(value), dt, name)
				}
				owner.variables[name] = value
				return nil
			}
			return fmt.Errorf("%s used without use statement", name)
		}
		cur = cur.parent
	}
	return fmt.Errorf("undefined variable %s", name)
}

// Lookup reads a binding's current value, honoring the same function-
// boundary rule as Assign.
func (s *Scope) Lookup(name string) (Value, bool) {
	owner, ok := s.resolveOwner(name)
	if !ok {
		return nil, false
	}
	v, ok := owner.variables[name]
	return v, ok
}

// resolveOwner finds the Scope object that actually stores `name`,
// respecting function-boundary import rules.
func (s *Scope) resolveOwner(name string) (*Scope, bool) {
	cur := s
	for cur != nil {
		if _, ok := cur.variables[name]; ok {
			return cur, true
		}
		if cur.isBoundary {
			if imp, ok := cur.importedVars[name]; ok {
				return imp.owner, true
			}
			return nil, false
		}
		cur = cur.parent
	}
	return nil, false
}

// Import records a function-local import of an outer name. Legal only
// inside a function scope; the name must already be visible somewhere in
// the ancestor chain above the function boundary. `use mut` binds live to
// the owning scope's storage; plain `use` deep-copies the value into a
// local, read-only binding (isolated from further outer mutation, per the
// deep-copy-for-immutable-import design note).
func (s *Scope) Import(name string, mutable bool) error {
	if s.boundary == nil {
		return fmt.Errorf("use statement outside a function")
	}
	entry := s.boundary
	if _, exists := entry.importedVars[name]; exists {
		return fmt.Errorf("%s already imported", name)
	}
	if _, exists := entry.variables[name]; exists {
		return fmt.Errorf("%s already imported", name)
	}
	owner, ok := entry.parent.resolveOuter(name)
	if !ok {
		return fmt.Errorf("cannot import undefined variable %s", name)
	}
	if mutable {
		entry.importedVars[name] = &importRecord{mutable: true, owner: owner}
		return nil
	}
	entry.importedVars[name] = &importRecord{mutable: false, owner: owner}
	entry.variables[name] = DeepCopy(owner.variables[name])
	if dt, ok2 := owner.types[name]; ok2 {
		entry.types[name] = dt
	}
	if entry.readOnly == nil {
		entry.readOnly = make(map[string]bool)
	}
	entry.readOnly[name] = true
	return nil
}

// resolveOuter walks the full parent chain (ignoring function boundaries),
// used only to locate the target of a `use`/`use mut` import.
func (s *Scope) resolveOuter(name string) (*Scope, bool) {
	cur := s
	for cur != nil {
		if _, ok := cur.variables[name]; ok {
			return cur, true
		}
		cur = cur.parent
	}
	return nil, false
}

// Watch marks a binding as observed. The binding is resolved once, at watch
// time, to the Scope that actually stores it — so mutation from any
// descendant scope (including through an import) is detected at the single
// point where the value lives.
func (s *Scope) Watch(name string) error {
	owner, ok := s.resolveOwner(name)
	if !ok {
		return fmt.Errorf("cannot watch undefined variable %s", name)
	}
	if owner.watchedVars == nil {
		owner.watchedVars = make(map[string]bool)
	}
	owner.watchedVars[name] = true
	return nil
}

// IsWatched reports whether name's owning binding (as seen from s) is
// currently watched.
func (s *Scope) IsWatched(name string) bool {
	owner, ok := s.resolveOwner(name)
	if !ok {
		return false
	}
	return owner.watchedVars[name]
}

// MutationAllowed reports whether a mutating method may operate on the
// binding named `name` as observed from s: true for any local (including an
// immutable import's deep-copied local binding, which is free to mutate in
// isolation), and true for an import recorded `use mut`. Import stores every
// plain `use` as such a local copy, so a plain `use` import is allowed to
// mutate too; only an immutable import record without a local copy would
// report false. A name that resolves nowhere reports true.
func (s *Scope) MutationAllowed(name string) bool {
	cur := s
	for cur != nil {
		if _, ok := cur.variables[name]; ok {
			return true
		}
		if cur.isBoundary {
			if imp, ok := cur.importedVars[name]; ok {
				return imp.mutable
			}
			return true
		}
		cur = cur.parent
	}
	return true
}

// DefineFunction installs a function record in the current scope.
func (s *Scope) DefineFunction(name string, fn *Function) {
	s.functions[name] = fn
}

// LookupFunction walks the full parent chain for a function record.
func (s *Scope) LookupFunction(name string) (*Function, bool) {
	cur := s
	for cur != nil {
		if fn, ok := cur.functions[name]; ok {
			return fn, true
		}
		cur = cur.parent
	}
	return nil, false
}

// DeclaredType returns the declared type recorded for name in its owning
// scope, if any.
func (s *Scope) DeclaredType(name string) (string, bool) {
	owner, ok := s.resolveOwner(name)
	if !ok {
		return "", false
	}
	t, ok := owner.types[name]
	return t, ok
}

package ast

// Registry is the ordered sequence of top-level definitions forming one
// translation unit.  It is appended to during parsing and only read afterwards.
type Registry struct {
	defs []Def
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Append appends a definition to the registry.
func (r *Registry) Append(def Def) {
	r.defs = append(r.defs, def)
}

// Defs returns the definitions of the registry in declaration order.  The
// returned slice must not be modified.
func (r *Registry) Defs() []Def {
	return r.defs
}

// Len returns the number of definitions in the registry.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Func returns the function definition with the given name if one exists.
func (r *Registry) Func(name string) (*FuncDef, bool) {
	for _, def := range r.defs {
		if fd, ok := def.(*FuncDef); ok && fd.FuncName == name {
			return fd, true
		}
	}

	return nil, false
}

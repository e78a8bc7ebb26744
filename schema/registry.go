package schema

import (
	"errors"
	"fmt"

	"github.com/krypticmouse/dsgo/typeir"
)

// Sentinel errors returned by the registry builder.
var (
	ErrDuplicateDefinition = errors.New("duplicate definition")
	ErrUnknownReference    = errors.New("unknown reference")
	ErrInvalidDefinition   = errors.New("invalid definition")
)

// FieldDef describes one declared class field. Alias is an alternate key
// accepted when coercing from raw objects.
type FieldDef struct {
	Name        string
	Type        *typeir.Type
	Description string
	Alias       string
	Mode        typeir.Mode
}

// IsOptional reports whether the field admits a missing value.
func (f FieldDef) IsOptional() bool {
	return f.Type.IsOptional() || f.Type.Kind == typeir.KindNull
}

// ClassDef describes a class: an ordered sequence of fields plus
// class-level metadata.
type ClassDef struct {
	Name        string
	Mode        typeir.Mode
	Dynamic     bool
	Description string
	Fields      []FieldDef
	Constraints []typeir.Constraint
}

// Field returns the field with the given declared name.
func (c *ClassDef) Field(name string) (FieldDef, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return FieldDef{}, false
}

// EnumValueDef describes one enum variant: a primary label plus optional
// aliases accepted during coercion.
type EnumValueDef struct {
	Label       string
	Aliases     []string
	Description string
}

// EnumDef describes an enum: an ordered sequence of variants.
type EnumDef struct {
	Name        string
	Description string
	Values      []EnumValueDef
}

// Labels returns the primary labels of all variants, in declaration order.
func (e *EnumDef) Labels() []string {
	labels := make([]string, len(e.Values))
	for i, v := range e.Values {
		labels[i] = v.Label
	}

	return labels
}

type classKey struct {
	name string
	mode typeir.Mode
}

// Registry holds the class, enum, and alias definitions a coercion run
// resolves by-name references against. It is built once via [Builder] and
// read-only afterwards, so a single Registry is safe to share across
// concurrent parses.
type Registry struct {
	target    *typeir.Type
	classes   map[classKey]*ClassDef
	enums     map[string]*EnumDef
	aliases   map[string]*typeir.Type
	recursive map[string]bool
}

// Target returns the root type this registry was built for, or nil.
func (r *Registry) Target() *typeir.Type { return r.target }

// Class resolves a class reference. When no definition exists for the
// requested streaming mode, the final-mode definition is returned instead.
func (r *Registry) Class(name string, mode typeir.Mode) (*ClassDef, bool) {
	if c, ok := r.classes[classKey{name: name, mode: mode}]; ok {
		return c, true
	}

	if mode != typeir.ModeFinal {
		if c, ok := r.classes[classKey{name: name, mode: typeir.ModeFinal}]; ok {
			return c, true
		}
	}

	return nil, false
}

// Enum resolves an enum reference.
func (r *Registry) Enum(name string) (*EnumDef, bool) {
	e, ok := r.enums[name]

	return e, ok
}

// Alias resolves a recursive type alias to its target type.
func (r *Registry) Alias(name string) (*typeir.Type, bool) {
	t, ok := r.aliases[name]

	return t, ok
}

// IsRecursiveClass reports whether the class participates in a reference
// cycle (including self-reference). The coercer uses this to decide when
// cycle tracking is required.
func (r *Registry) IsRecursiveClass(name string) bool {
	return r.recursive[name]
}

// Builder accumulates definitions and produces an immutable [Registry].
type Builder struct {
	target  *typeir.Type
	classes []*ClassDef
	enums   []*EnumDef
	aliases map[string]*typeir.Type
	order   []string
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{aliases: make(map[string]*typeir.Type)}
}

// SetTarget declares the root output type.
func (b *Builder) SetTarget(t *typeir.Type) *Builder {
	b.target = t

	return b
}

// AddClass registers a class definition.
func (b *Builder) AddClass(c ClassDef) *Builder {
	b.classes = append(b.classes, &c)

	return b
}

// AddEnum registers an enum definition.
func (b *Builder) AddEnum(e EnumDef) *Builder {
	b.enums = append(b.enums, &e)

	return b
}

// AddAlias registers a named type alias.
func (b *Builder) AddAlias(name string, t *typeir.Type) *Builder {
	if _, exists := b.aliases[name]; !exists {
		b.order = append(b.order, name)
	}

	b.aliases[name] = t

	return b
}

// Build validates the accumulated definitions, discovers recursive classes,
// and returns the immutable registry. Types are simplified on the way in so
// lookups always observe normal forms.
func (b *Builder) Build() (*Registry, error) {
	r := &Registry{
		classes:   make(map[classKey]*ClassDef, len(b.classes)),
		enums:     make(map[string]*EnumDef, len(b.enums)),
		aliases:   make(map[string]*typeir.Type, len(b.aliases)),
		recursive: make(map[string]bool),
	}

	for _, c := range b.classes {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: class with empty name", ErrInvalidDefinition)
		}

		key := classKey{name: c.Name, mode: c.Mode}
		if _, exists := r.classes[key]; exists {
			return nil, fmt.Errorf("%w: class %q (%s)", ErrDuplicateDefinition, c.Name, c.Mode)
		}

		cc := *c
		cc.Fields = make([]FieldDef, len(c.Fields))

		for i, f := range c.Fields {
			if f.Type == nil {
				return nil, fmt.Errorf("%w: field %s.%s has no type",
					ErrInvalidDefinition, c.Name, f.Name)
			}

			f.Type = typeir.Simplify(f.Type)
			cc.Fields[i] = f
		}

		r.classes[key] = &cc
	}

	for _, e := range b.enums {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: enum with empty name", ErrInvalidDefinition)
		}

		if _, exists := r.enums[e.Name]; exists {
			return nil, fmt.Errorf("%w: enum %q", ErrDuplicateDefinition, e.Name)
		}

		r.enums[e.Name] = e
	}

	for _, name := range b.order {
		r.aliases[name] = typeir.Simplify(b.aliases[name])
	}

	if b.target != nil {
		r.target = typeir.Simplify(b.target)
	}

	r.resolveNames()

	if err := r.validateReferences(); err != nil {
		return nil, err
	}

	r.recursive = recursiveClasses(r)

	return r, nil
}

// resolveNames re-kinds bare name references. Type expressions cannot
// distinguish class, enum, and alias names syntactically, so they parse as
// class references; here each reference takes the kind of whatever
// definition actually carries the name. Classes win over enums, enums over
// aliases.
func (r *Registry) resolveNames() {
	fix := func(t *typeir.Type) {
		walkTypes(t, func(n *typeir.Type) {
			if n.Kind != typeir.KindClass {
				return
			}

			if _, ok := r.classes[classKey{name: n.Name, mode: n.Mode}]; ok {
				return
			}

			if _, ok := r.classes[classKey{name: n.Name, mode: typeir.ModeFinal}]; ok {
				return
			}

			if _, ok := r.enums[n.Name]; ok {
				n.Kind = typeir.KindEnum

				return
			}

			if _, ok := r.aliases[n.Name]; ok {
				n.Kind = typeir.KindAlias
			}
		})
	}

	for _, c := range r.classes {
		for i := range c.Fields {
			fix(c.Fields[i].Type)
		}
	}

	for _, t := range r.aliases {
		fix(t)
	}

	fix(r.target)
}

// validateReferences checks that every by-name reference reachable from the
// registered definitions and the target resolves.
func (r *Registry) validateReferences() error {
	check := func(t *typeir.Type, where string) error {
		var err error

		walkTypes(t, func(n *typeir.Type) {
			if err != nil {
				return
			}

			switch n.Kind {
			case typeir.KindClass:
				if _, ok := r.Class(n.Name, n.Mode); !ok {
					err = fmt.Errorf("%w: class %q in %s", ErrUnknownReference, n.Name, where)
				}
			case typeir.KindEnum:
				if _, ok := r.Enum(n.Name); !ok {
					err = fmt.Errorf("%w: enum %q in %s", ErrUnknownReference, n.Name, where)
				}
			case typeir.KindAlias:
				if _, ok := r.Alias(n.Name); !ok {
					err = fmt.Errorf("%w: alias %q in %s", ErrUnknownReference, n.Name, where)
				}
			}
		})

		return err
	}

	for _, c := range r.classes {
		for _, f := range c.Fields {
			if err := check(f.Type, c.Name+"."+f.Name); err != nil {
				return err
			}
		}
	}

	for name, t := range r.aliases {
		if err := check(t, "alias "+name); err != nil {
			return err
		}
	}

	if r.target != nil {
		if err := check(r.target, "target"); err != nil {
			return err
		}
	}

	return nil
}

// walkTypes visits t and every type reachable through its structure.
func walkTypes(t *typeir.Type, visit func(*typeir.Type)) {
	if t == nil {
		return
	}

	visit(t)
	walkTypes(t.Elem, visit)
	walkTypes(t.Key, visit)
	walkTypes(t.Ret, visit)

	for _, m := range t.Members {
		walkTypes(m, visit)
	}
}

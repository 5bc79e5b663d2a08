package ir

import "strings"

// DisplayName maps a Simple name to the name used for connection checks.
func DisplayName(name string) string {
	switch name {
	case Number:
		return "Number"
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	}
	return name
}

// Describe renders t as human-readable text, e.g. "Promise<Number>" or
// "(info: EventInfo) => void".
func Describe(t Type) string { return Visit[string](t, describer{}) }

type describer struct{}

func (describer) Simple(s *Simple) string { return DisplayName(s.Name) }

func (d describer) Promise(p *Promise) string { return "Promise<" + Visit[string](p.Elem, d) + ">" }

func (d describer) Array(a *Array) string { return Visit[string](a.Elem, d) + "[]" }

func (d describer) Object(o *Object) string {
	if len(o.Props) == 0 {
		return "{}"
	}
	parts := make([]string, len(o.Props))
	for i, p := range o.Props {
		parts[i] = p.Name + ": " + Visit[string](p.Type, d)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (d describer) Function(f *Function) string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name + ": " + Visit[string](p.Type, d)
	}
	return "(" + strings.Join(parts, ", ") + ") => " + Visit[string](f.Return, d)
}

func (describer) Literal(l *Literal) string {
	if l.LitKind == LitString {
		return `"` + l.Value + `"`
	}
	return l.Value
}

func (describer) StrEnum(e *StrEnum) string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = `"` + v + `"`
	}
	return strings.Join(parts, " | ")
}

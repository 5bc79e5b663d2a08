package decl

import "github.com/reoring/goblockly/internal/ir"

// parseType parses a type annotation. Besides the IR it returns the syntax
// kind of the outermost construct (TypeReference, TypeLiteral, ...), which
// callers use to enforce position-specific restrictions.
func (p *parser) parseType() (ir.Type, string, error) {
	start := p.tok()
	leading := p.got("|")

	first, kind, err := p.parseIntersection()
	if err != nil {
		return nil, "", err
	}
	if !leading && !p.tok().Is("|") {
		return first, kind, nil
	}

	members := []ir.Type{first}
	for p.got("|") {
		t, _, err := p.parseIntersection()
		if err != nil {
			return nil, "", err
		}
		members = append(members, t)
	}

	enum := &ir.StrEnum{}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		lit, ok := m.(*ir.Literal)
		if !ok || lit.LitKind != ir.LitString {
			return nil, "", unsupported(start.Pos, "UnionType", "only unions of string literals are supported")
		}
		if _, dup := seen[lit.Value]; dup {
			continue
		}
		seen[lit.Value] = struct{}{}
		enum.Values = append(enum.Values, lit.Value)
	}
	return enum, "UnionType", nil
}

func (p *parser) parseIntersection() (ir.Type, string, error) {
	t, kind, err := p.parsePostfix()
	if err != nil {
		return nil, "", err
	}
	if p.tok().Is("&") {
		return nil, "", unsupported(p.tok().Pos, "IntersectionType", "intersection types are not supported")
	}
	return t, kind, nil
}

func (p *parser) parsePostfix() (ir.Type, string, error) {
	t, kind, err := p.parsePrimary()
	if err != nil {
		return nil, "", err
	}
	switch next := p.tok(); {
	case next.Is("[") && p.peekTok(1).Is("]"):
		return nil, "", unsupported(next.Pos, "ArrayType", "array types are not supported")
	case next.Is("["):
		return nil, "", unsupported(next.Pos, "IndexedAccessType", "indexed access types are not supported")
	case next.Is("extends"):
		return nil, "", unsupported(next.Pos, "ConditionalType", "conditional types are not supported")
	}
	return t, kind, nil
}

// unsupportedTypeKeywords maps keyword types outside the accepted subset to
// their syntax kind.
var unsupportedTypeKeywords = map[string]string{
	"unknown":   "UnknownKeyword",
	"never":     "NeverKeyword",
	"undefined": "UndefinedKeyword",
	"null":      "NullKeyword",
	"object":    "ObjectKeyword",
	"symbol":    "SymbolKeyword",
	"bigint":    "BigIntKeyword",
	"this":      "ThisType",
	"typeof":    "TypeQuery",
	"keyof":     "TypeOperator",
	"unique":    "TypeOperator",
	"readonly":  "TypeOperator",
	"infer":     "InferType",
	"new":       "ConstructorType",
	"abstract":  "ConstructorType",
}

func (p *parser) parsePrimary() (ir.Type, string, error) {
	t := p.tok()
	switch t.Kind {
	case TokEOF:
		return nil, "", p.unexpected(t, "a type")
	case TokString:
		p.advance()
		return &ir.Literal{LitKind: ir.LitString, Value: t.Text}, "LiteralType", nil
	case TokNumber:
		p.advance()
		return &ir.Literal{LitKind: ir.LitNumber, Value: t.Text}, "LiteralType", nil
	case TokTemplate:
		return nil, "", unsupported(t.Pos, "TemplateLiteralType", "template literal types are not supported")
	case TokPunct:
		switch t.Text {
		case "{":
			return p.parseTypeLiteral()
		case "(":
			if p.isStartOfFunctionType() {
				return p.parseFunctionType()
			}
			return nil, "", unsupported(t.Pos, "ParenthesizedType", "parenthesized types are not supported")
		case "[":
			return nil, "", unsupported(t.Pos, "TupleType", "tuple types are not supported")
		case "<":
			return nil, "", unsupported(t.Pos, "TypeParameter", "generic function types are not supported")
		case "-":
			if p.peekTok(1).Kind == TokNumber {
				return nil, "", unsupported(t.Pos, "PrefixUnaryExpression", "negative literal types are not supported")
			}
		}
		return nil, "", malformed(t.Pos, "expected a type, found %s", t.describe())
	}

	switch t.Text {
	case ir.Number:
		p.advance()
		return &ir.Simple{Name: ir.Number}, "NumberKeyword", nil
	case ir.String:
		p.advance()
		return &ir.Simple{Name: ir.String}, "StringKeyword", nil
	case ir.Boolean:
		p.advance()
		return &ir.Simple{Name: ir.Boolean}, "BooleanKeyword", nil
	case ir.Void:
		p.advance()
		return &ir.Simple{Name: ir.Void}, "VoidKeyword", nil
	case ir.Any:
		p.advance()
		return &ir.Simple{Name: ir.Any}, "AnyKeyword", nil
	case "true", "false":
		p.advance()
		return &ir.Literal{LitKind: ir.LitBoolean, Value: t.Text}, "LiteralType", nil
	}
	if kind, ok := unsupportedTypeKeywords[t.Text]; ok {
		return nil, "", unsupported(t.Pos, kind, "type %q is not supported", t.Text)
	}
	return p.parseTypeReference()
}

// parseTypeReference resolves a named type. Promise<T> is the only generic
// reference; any other name becomes an opaque Simple type.
func (p *parser) parseTypeReference() (ir.Type, string, error) {
	name := p.advance()
	if p.tok().Is(".") {
		return nil, "", unsupported(name.Pos, "QualifiedName", "qualified type names are not supported")
	}

	if name.Text != "Promise" {
		if p.tok().Is("<") {
			return nil, "", unsupported(name.Pos, "TypeReference", "generic type %q is not supported", name.Text)
		}
		return &ir.Simple{Name: name.Text}, "TypeReference", nil
	}

	if !p.tok().Is("<") {
		return nil, "", unsupported(name.Pos, "TypeReference", "Promise requires exactly one type argument")
	}
	p.advance()
	var args []ir.Type
	for !p.tok().Is(">") {
		arg, _, err := p.parseType()
		if err != nil {
			return nil, "", err
		}
		args = append(args, arg)
		if !p.got(",") {
			break
		}
	}
	if _, err := p.expect(">"); err != nil {
		return nil, "", err
	}
	if len(args) != 1 {
		return nil, "", unsupported(name.Pos, "TypeReference", "Promise requires exactly one type argument, got %d", len(args))
	}
	return &ir.Promise{Elem: args[0]}, "TypeReference", nil
}

// isStartOfFunctionType decides whether the '(' at the current position
// opens a function type rather than a parenthesized type.
func (p *parser) isStartOfFunctionType() bool {
	n1 := p.peekTok(1)
	if n1.Is(")") || n1.Is("...") || n1.Is("{") || n1.Is("[") {
		return true
	}
	if n1.Kind != TokIdent {
		return false
	}
	n2 := p.peekTok(2)
	if n2.Is(":") || n2.Is(",") || n2.Is("?") || n2.Is("=") {
		return true
	}
	return n2.Is(")") && p.peekTok(3).Is("=>")
}

func (p *parser) parseFunctionType() (ir.Type, string, error) {
	params, err := p.parseParamList()
	if err != nil {
		return nil, "", err
	}
	if _, err := p.expect("=>"); err != nil {
		return nil, "", err
	}
	ret, err := p.parseReturnType()
	if err != nil {
		return nil, "", err
	}
	return &ir.Function{Params: params, Return: ret}, "FunctionType", nil
}

func (p *parser) parseTypeLiteral() (ir.Type, string, error) {
	p.advance() // {
	obj := &ir.Object{}
	for !p.tok().Is("}") {
		if p.tok().Kind == TokEOF {
			return nil, "", p.unexpected(p.tok(), "'}'")
		}
		prop, err := p.parseTypeMember()
		if err != nil {
			return nil, "", err
		}
		obj.Props = append(obj.Props, prop)

		if p.got(";") || p.got(",") {
			continue
		}
		if p.tok().Is("}") || p.tok().NewlineBefore {
			continue
		}
		return nil, "", p.unexpected(p.tok(), "';' or '}'")
	}
	p.advance() // }
	return obj, "TypeLiteral", nil
}

// parseTypeMember parses a property or method signature.
func (p *parser) parseTypeMember() (ir.Property, error) {
	doc := p.tok().Doc
	for p.tok().Is("readonly") && isPropertyNameStart(p.peekTok(1)) {
		p.advance()
	}

	t := p.tok()
	switch {
	case t.Is("["):
		return ir.Property{}, unsupported(t.Pos, "IndexSignature", "index signatures are not supported")
	case t.Is("(") || t.Is("<"):
		return ir.Property{}, unsupported(t.Pos, "CallSignature", "call signatures are not supported")
	case t.Is("new") && (p.peekTok(1).Is("(") || p.peekTok(1).Is("<")):
		return ir.Property{}, unsupported(t.Pos, "ConstructSignature", "construct signatures are not supported")
	case (t.Is("get") || t.Is("set")) && isPropertyNameStart(p.peekTok(1)):
		kind := "GetAccessor"
		if t.Text == "set" {
			kind = "SetAccessor"
		}
		return ir.Property{}, unsupported(t.Pos, kind, "accessors are not supported")
	case t.Kind == TokString:
		return ir.Property{}, unsupported(t.Pos, "StringLiteral", "property names must be identifiers")
	case t.Kind == TokNumber:
		return ir.Property{}, unsupported(t.Pos, "NumericLiteral", "property names must be identifiers")
	case t.Kind != TokIdent:
		return ir.Property{}, p.unexpected(t, "a property name")
	}
	p.advance()
	p.got("?")

	if p.tok().Is("(") || p.tok().Is("<") {
		sig, err := p.parseSignature()
		if err != nil {
			return ir.Property{}, err
		}
		return ir.Property{Name: t.Text, Type: sig, Doc: doc}, nil
	}

	if !p.tok().Is(":") {
		if p.tok().Kind == TokEOF {
			return ir.Property{}, p.unexpected(p.tok(), "':'")
		}
		return ir.Property{}, malformed(t.Pos, "property %q has no type", t.Text)
	}
	p.advance()
	typ, _, err := p.parseType()
	if err != nil {
		return ir.Property{}, err
	}
	return ir.Property{Name: t.Text, Type: typ, Doc: doc}, nil
}

func isPropertyNameStart(t Token) bool {
	return t.Kind == TokIdent || t.Kind == TokString || t.Kind == TokNumber || t.Is("[")
}

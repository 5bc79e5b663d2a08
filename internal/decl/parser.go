package decl

import "github.com/reoring/goblockly/internal/ir"

// File is the result of parsing one declaration text.
type File struct {
	// Members holds the top-level declarations in source order.
	Members []ir.Member

	// Warnings lists namespace statements that were skipped.
	Warnings []Warning
}

// Parse parses declaration source text. Parsing is all-or-nothing: the first
// unsupported or malformed construct aborts the parse and no members are
// returned.
func Parse(src string) (*File, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseFile()
}

func tokenize(src string) ([]Token, error) {
	lex := NewLexer(src)
	var toks []Token
	for {
		tok, err := lex.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks, nil
		}
	}
}

type parser struct {
	toks []Token
	pos  int

	warnings []Warning
}

func (p *parser) parseFile() (*File, error) {
	f := &File{}
	for p.tok().Kind != TokEOF {
		if p.got(";") {
			continue
		}
		m, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		f.Members = append(f.Members, m)
	}
	f.Warnings = p.warnings
	return f, nil
}

func (p *parser) parseTopLevel() (ir.Member, error) {
	start := p.tok()
	if err := p.skipModifiers(); err != nil {
		return nil, err
	}

	t := p.tok()
	switch {
	case t.Is("function"):
		return p.parseFunction(start)
	case isVariableKeyword(t) && !p.peekTok(1).Is("enum"):
		return p.parseVariable(start)
	case t.Is("namespace") || t.Is("module"):
		return p.parseModule(start)
	case t.Is("global"):
		return nil, unsupported(t.Pos, "ModuleDeclaration", "global augmentations are not supported")
	case t.Kind == TokEOF:
		return nil, p.unexpected(t, "a declaration")
	}
	return nil, unsupported(t.Pos, statementKind(p, t), "unsupported top-level statement")
}

// skipModifiers consumes leading 'declare' and 'export' keywords.
func (p *parser) skipModifiers() error {
	for {
		t := p.tok()
		switch {
		case t.Is("declare"):
			p.advance()
		case t.Is("export"):
			next := p.peekTok(1)
			if next.Is("default") || next.Is("=") {
				return unsupported(t.Pos, "ExportAssignment", "export assignments are not supported")
			}
			if next.Is("{") || next.Is("*") || next.Is("as") {
				return unsupported(t.Pos, "ExportDeclaration", "export declarations are not supported")
			}
			p.advance()
		default:
			return nil
		}
	}
}

func (p *parser) parseFunction(start Token) (*ir.Func, error) {
	p.advance() // function
	if p.tok().Is("*") {
		return nil, unsupported(p.tok().Pos, "AsteriskToken", "generator functions are not supported")
	}

	name := p.tok()
	if name.Kind != TokIdent {
		if name.Kind == TokEOF {
			return nil, p.unexpected(name, "a function name")
		}
		return nil, malformed(name.Pos, "function has no name")
	}
	p.advance()

	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	if p.tok().Is("{") {
		return nil, unsupported(p.tok().Pos, "Block", "function bodies are not supported in declarations")
	}
	p.got(";")

	return &ir.Func{Name: name.Text, Sig: sig, Doc: start.Doc, Pos: start.Pos}, nil
}

func (p *parser) parseVariable(start Token) (*ir.Var, error) {
	p.advance() // const | let | var

	name := p.tok()
	switch {
	case name.Is("{"):
		return nil, unsupported(name.Pos, "ObjectBindingPattern", "destructured variables are not supported")
	case name.Is("["):
		return nil, unsupported(name.Pos, "ArrayBindingPattern", "destructured variables are not supported")
	case name.Kind == TokEOF:
		return nil, p.unexpected(name, "a variable name")
	case name.Kind != TokIdent:
		return nil, malformed(name.Pos, "variable declaration has no name")
	}
	p.advance()
	p.got("!")

	if !p.tok().Is(":") {
		if p.tok().Kind == TokEOF {
			return nil, p.unexpected(p.tok(), "':'")
		}
		return nil, malformed(name.Pos, "variable %q has no type", name.Text)
	}
	p.advance()

	typeTok := p.tok()
	typ, kind, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.tok().Is("=") {
		return nil, unsupported(p.tok().Pos, "Initializer", "variable initializers are not supported")
	}
	if p.tok().Is(",") {
		return nil, malformed(start.Pos, "variable statement has multiple declarations")
	}
	if kind != "TypeReference" && kind != "TypeLiteral" {
		return nil, unsupported(typeTok.Pos, kind, "variable %q must be typed with a type reference or an object type", name.Text)
	}
	p.got(";")

	return &ir.Var{Name: name.Text, Type: typ, Doc: start.Doc, Pos: start.Pos}, nil
}

func (p *parser) parseModule(start Token) (*ir.Module, error) {
	p.advance() // namespace | module

	nameTok := p.tok()
	if nameTok.Kind != TokIdent && nameTok.Kind != TokString {
		if nameTok.Kind == TokEOF {
			return nil, p.unexpected(nameTok, "a module name")
		}
		return nil, malformed(nameTok.Pos, "module has no name")
	}
	p.advance()
	if p.tok().Is(".") {
		return nil, unsupported(p.tok().Pos, "ModuleDeclaration", "dotted namespace names are not supported")
	}
	if !p.tok().Is("{") {
		if p.tok().Kind == TokEOF {
			return nil, p.unexpected(p.tok(), "'{'")
		}
		return nil, malformed(nameTok.Pos, "module %q has no body", nameTok.Text)
	}
	p.advance()

	mod := &ir.Module{Name: nameTok.Text, Pos: start.Pos}
	for !p.tok().Is("}") {
		if p.tok().Kind == TokEOF {
			return nil, p.unexpected(p.tok(), "'}'")
		}
		if p.got(";") {
			continue
		}

		stmt := p.tok()
		for p.tok().Is("declare") || (p.tok().Is("export") && isDeclarationStart(p.peekTok(1))) {
			p.advance()
		}

		t := p.tok()
		switch {
		case t.Is("function"):
			fn, err := p.parseFunction(stmt)
			if err != nil {
				return nil, err
			}
			mod.Members = append(mod.Members, &ir.Var{Name: fn.Name, Type: fn.Sig, Doc: fn.Doc, Pos: fn.Pos})
		case isVariableKeyword(t) && !p.peekTok(1).Is("enum"):
			v, err := p.parseVariable(stmt)
			if err != nil {
				return nil, err
			}
			mod.Members = append(mod.Members, v)
		default:
			kind := statementKind(p, t)
			p.warn(t.Pos, kind, "skipped unsupported statement in module "+nameTok.Text)
			if err := p.skipStatement(); err != nil {
				return nil, err
			}
		}
	}
	p.advance() // }

	return mod, nil
}

// skipStatement consumes one statement without interpreting it. It stops
// after a ';' at nesting depth zero, before the '}' closing the enclosing
// block, right after a closed block followed by a line break or a new
// declaration, or at a line break preceding a new declaration keyword.
func (p *parser) skipStatement() error {
	depth := 0
	for {
		t := p.tok()
		if t.Kind == TokEOF {
			return p.unexpected(t, "'}'")
		}
		if depth == 0 && t.Is("}") {
			return nil
		}
		if depth == 0 && t.Is(";") {
			p.advance()
			return nil
		}

		switch {
		case t.Is("{") || t.Is("(") || t.Is("["):
			depth++
		case t.Is("}") || t.Is(")") || t.Is("]"):
			depth--
		}
		p.advance()

		if depth != 0 {
			continue
		}
		next := p.tok()
		if t.Is("}") && (next.NewlineBefore || next.Is("}") || isDeclarationStart(next)) {
			return nil
		}
		if next.NewlineBefore && isDeclarationStart(next) {
			return nil
		}
	}
}

// -----------------------------------------------------------------------------

// parseSignature parses an optional type parameter list (rejected), a
// parameter list and an optional return type annotation.
func (p *parser) parseSignature() (*ir.Function, error) {
	if p.tok().Is("<") {
		return nil, unsupported(p.tok().Pos, "TypeParameter", "generic signatures are not supported")
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	sig := &ir.Function{Params: params, Return: &ir.Simple{Name: ir.Void}}
	if p.got(":") {
		ret, err := p.parseReturnType()
		if err != nil {
			return nil, err
		}
		sig.Return = ret
	}
	return sig, nil
}

func (p *parser) parseReturnType() (ir.Type, error) {
	t := p.tok()
	if t.Is("asserts") || (t.Kind == TokIdent && p.peekTok(1).Is("is")) {
		return nil, unsupported(t.Pos, "TypePredicate", "type predicates are not supported")
	}
	typ, _, err := p.parseType()
	return typ, err
}

func (p *parser) parseParamList() ([]ir.Param, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	params := []ir.Param{}
	for !p.tok().Is(")") {
		prm, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, prm)
		if !p.got(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) parseParam() (ir.Param, error) {
	t := p.tok()
	switch {
	case t.Is("..."):
		return ir.Param{}, unsupported(t.Pos, "RestParameter", "rest parameters are not supported")
	case t.Is("{"):
		return ir.Param{}, unsupported(t.Pos, "ObjectBindingPattern", "destructured parameters are not supported")
	case t.Is("["):
		return ir.Param{}, unsupported(t.Pos, "ArrayBindingPattern", "destructured parameters are not supported")
	case t.Kind == TokEOF:
		return ir.Param{}, p.unexpected(t, "a parameter name")
	case t.Kind != TokIdent:
		return ir.Param{}, malformed(t.Pos, "parameter has no name")
	}
	p.advance()

	optional := p.got("?")
	if p.tok().Is("=") {
		return ir.Param{}, unsupported(p.tok().Pos, "Initializer", "default parameter values are not supported")
	}
	if !p.tok().Is(":") {
		if p.tok().Kind == TokEOF {
			return ir.Param{}, p.unexpected(p.tok(), "':'")
		}
		return ir.Param{}, malformed(t.Pos, "parameter %q has no type", t.Text)
	}
	p.advance()

	typ, _, err := p.parseType()
	if err != nil {
		return ir.Param{}, err
	}
	if p.tok().Is("=") {
		return ir.Param{}, unsupported(p.tok().Pos, "Initializer", "default parameter values are not supported")
	}
	return ir.Param{Name: t.Text, Type: typ, Optional: optional}, nil
}

// -----------------------------------------------------------------------------

func (p *parser) tok() Token { return p.toks[p.pos] }

// peekTok returns the token n positions ahead; the trailing EOF token is
// returned past the end.
func (p *parser) peekTok(n int) Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() Token {
	t := p.tok()
	if t.Kind != TokEOF {
		p.pos++
	}
	return t
}

// got consumes the current token if it matches text.
func (p *parser) got(text string) bool {
	if p.tok().Is(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(text string) (Token, error) {
	t := p.tok()
	if !t.Is(text) {
		return t, p.unexpected(t, "'"+text+"'")
	}
	p.advance()
	return t, nil
}

func (p *parser) unexpected(t Token, want string) *SyntaxError {
	if t.Kind == TokEOF {
		return incompleteAt(t.Pos, "unexpected end of input, expected "+want)
	}
	return malformed(t.Pos, "expected %s, found %s", want, t.describe())
}

func (p *parser) warn(pos ir.Pos, kind, msg string) {
	p.warnings = append(p.warnings, Warning{Kind: kind, Message: msg, Pos: pos})
}

func isVariableKeyword(t Token) bool {
	return t.Is("const") || t.Is("let") || t.Is("var")
}

func isDeclarationStart(t Token) bool {
	if t.Kind != TokIdent {
		return false
	}
	switch t.Text {
	case "function", "const", "let", "var", "declare", "export", "interface",
		"type", "namespace", "module", "import", "class", "enum", "abstract":
		return true
	}
	return false
}

// statementKind names an unsupported statement by its leading keyword.
func statementKind(p *parser, t Token) string {
	switch t.Text {
	case "interface":
		return "InterfaceDeclaration"
	case "type":
		return "TypeAliasDeclaration"
	case "import":
		if p.peekTok(2).Is("=") {
			return "ImportEqualsDeclaration"
		}
		return "ImportDeclaration"
	case "export":
		return "ExportDeclaration"
	case "class", "abstract":
		return "ClassDeclaration"
	case "enum":
		return "EnumDeclaration"
	case "const", "let", "var":
		if p.peekTok(1).Is("enum") {
			return "EnumDeclaration"
		}
		return "VariableStatement"
	}
	return "ExpressionStatement"
}

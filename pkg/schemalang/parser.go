package schemalang

import (
	"fmt"
	"strconv"
)

var primitiveNames = map[string]bool{
	"null": true, "boolean": true, "int32": true, "int64": true,
	"float": true, "double": true, "bytes": true, "string": true,
}

// Parser parses .sval source into a *File via single-token-lookahead
// recursive descent.
type Parser struct {
	lexer   *Lexer
	current Token
	errs    []error
}

// NewParser creates a Parser for input from filename.
func NewParser(filename, input string) *Parser {
	p := &Parser{lexer: NewLexer(filename, input)}
	p.advance()
	return p
}

func (p *Parser) advance() { p.current = p.lexer.Next() }

func (p *Parser) check(t TokenType) bool { return p.current.Type == t }

func (p *Parser) expect(t TokenType) (Token, error) {
	if p.current.Type != t {
		return Token{}, LexError(p.current.Position, "expected %s, got %s %q", t, p.current.Type, p.current.Text)
	}
	tok := p.current
	p.advance()
	return tok, nil
}

// Parse parses the entire file, collecting every error rather than
// stopping at the first.
func (p *Parser) Parse() (*File, []error) {
	f := &File{Position: p.current.Position}
	for !p.check(TokenEOF) {
		decl, err := p.parseDecl()
		if err != nil {
			p.errs = append(p.errs, err)
			p.recover()
			continue
		}
		f.Decls = append(f.Decls, decl)
	}
	return f, p.errs
}

// recover skips tokens until the start of the next plausible
// declaration, so one malformed decl doesn't cascade into spurious
// errors for the rest of the file.
func (p *Parser) recover() {
	for !p.check(TokenEOF) && !p.check(TokenRecord) && !p.check(TokenEnum) && !p.check(TokenFixed) {
		p.advance()
	}
}

func (p *Parser) parseDecl() (Decl, error) {
	switch p.current.Type {
	case TokenRecord:
		return p.parseRecord()
	case TokenEnum:
		return p.parseEnum()
	case TokenFixed:
		return p.parseFixed()
	default:
		return nil, LexError(p.current.Position, "expected record, enum, or fixed declaration, got %s %q", p.current.Type, p.current.Text)
	}
}

func (p *Parser) parseRecord() (*RecordDecl, error) {
	pos := p.current.Position
	p.advance() // 'record'
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	d := &RecordDecl{Position: pos, Name: name.Text}
	for !p.check(TokenRBrace) {
		if p.check(TokenEOF) {
			return nil, LexError(p.current.Position, "unterminated record %q", name.Text)
		}
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, field)
	}
	p.advance() // '}'
	return d, nil
}

func (p *Parser) parseField() (*FieldDecl, error) {
	pos := p.current.Position
	fname, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemi); err != nil {
		return nil, err
	}
	return &FieldDecl{Position: pos, Name: fname.Text, Type: typ}, nil
}

func (p *Parser) parseTypeRef() (TypeRef, error) {
	pos := p.current.Position
	switch p.current.Type {
	case TokenArray:
		p.advance()
		if _, err := p.expect(TokenLAngle); err != nil {
			return nil, err
		}
		item, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRAngle); err != nil {
			return nil, err
		}
		return &ArrayRef{Position: pos, Item: item}, nil
	case TokenMap:
		p.advance()
		if _, err := p.expect(TokenLAngle); err != nil {
			return nil, err
		}
		val, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRAngle); err != nil {
			return nil, err
		}
		return &MapRef{Position: pos, Value: val}, nil
	case TokenUnion:
		p.advance()
		if _, err := p.expect(TokenLBrace); err != nil {
			return nil, err
		}
		u := &UnionRef{Position: pos}
		for {
			b, err := p.parseTypeRef()
			if err != nil {
				return nil, err
			}
			u.Branches = append(u.Branches, b)
			if p.check(TokenComma) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(TokenRBrace); err != nil {
			return nil, err
		}
		return u, nil
	case TokenIdent:
		name := p.current.Text
		p.advance()
		if primitiveNames[name] {
			return &PrimitiveRef{Position: pos, Name: name}, nil
		}
		return &LinkRef{Position: pos, Name: name}, nil
	default:
		return nil, LexError(pos, "expected a type reference, got %s %q", p.current.Type, p.current.Text)
	}
}

func (p *Parser) parseEnum() (*EnumDecl, error) {
	pos := p.current.Position
	p.advance() // 'enum'
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	d := &EnumDecl{Position: pos, Name: name.Text}
	for !p.check(TokenRBrace) {
		sym, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		d.Symbols = append(d.Symbols, sym.Text)
		if p.check(TokenComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *Parser) parseFixed() (*FixedDecl, error) {
	pos := p.current.Position
	p.advance() // 'fixed'
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	sizeTok, err := p.expect(TokenInt)
	if err != nil {
		return nil, err
	}
	size, convErr := strconv.Atoi(sizeTok.Text)
	if convErr != nil {
		return nil, fmt.Errorf("%s: invalid fixed size %q: %w", sizeTok.Position, sizeTok.Text, convErr)
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &FixedDecl{Position: pos, Name: name.Text, Size: size}, nil
}

// ParseFile parses filename's contents as .sval source.
func ParseFile(filename, src string) (*File, []error) {
	p := NewParser(filename, src)
	return p.Parse()
}

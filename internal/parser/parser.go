// Package parser turns a lexer.Token stream into an AST (spec §4.5's
// statement/expression grammar and ASI). It reports only the syntax errors
// the grammar itself hits; it makes no early-error checks.
package parser

import (
	"strconv"
	"strings"

	"github.com/jerryscript-project/jerryscript-sub014/internal/ecmaerr"
	"github.com/jerryscript-project/jerryscript-sub014/internal/lexer"
)

// precedence gives each binary operator its ECMA-262 §12 binding power;
// binary climbs it via minimum-precedence recursion (teacher's
// `precedence` table and `parseBinary(minPrec)` shape, generalized from
// Sentra's five operators to the full ES5.1/ES2015+ operator set).
var precedence = map[lexer.TokenType]int{
	lexer.TokenCoalesce: 1,
	lexer.TokenOrOr:     2,
	lexer.TokenAndAnd:   3,
	lexer.TokenPipe:     4,
	lexer.TokenCaret:    5,
	lexer.TokenAmp:      6,
	lexer.TokenEqEq:     7,
	lexer.TokenNotEq:    7,
	lexer.TokenEqEqEq:   7,
	lexer.TokenNotEqEq:  7,
	lexer.TokenLT:       8,
	lexer.TokenGT:       8,
	lexer.TokenLE:       8,
	lexer.TokenGE:       8,
	lexer.TokenInstanceof: 8,
	lexer.TokenIn:       8,
	lexer.TokenShl:      9,
	lexer.TokenShr:      9,
	lexer.TokenUShr:     9,
	lexer.TokenPlus:     10,
	lexer.TokenMinus:    10,
	lexer.TokenStar:     11,
	lexer.TokenSlash:    11,
	lexer.TokenPercent:  11,
	lexer.TokenStarStar: 12,
}

var assignOps = map[lexer.TokenType]bool{
	lexer.TokenEqual: true, lexer.TokenPlusEq: true, lexer.TokenMinusEq: true,
	lexer.TokenStarEq: true, lexer.TokenSlashEq: true, lexer.TokenPercentEq: true,
	lexer.TokenStarStarEq: true, lexer.TokenShlEq: true, lexer.TokenShrEq: true,
	lexer.TokenUShrEq: true, lexer.TokenAmpEq: true, lexer.TokenPipeEq: true,
	lexer.TokenCaretEq: true,
}

// Parser is a recursive-descent/precedence-climbing parser over a fixed
// token slice (teacher's Parser struct shape: tokens/current cursor,
// accumulated Errors, file+sourceLines for caret-pointer diagnostics).
type Parser struct {
	tokens      []lexer.Token
	current     int
	Errors      []error
	file        string
	sourceLines []string
	inFunction  int
	strict      bool
}

// NewParser builds a parser with no source-line context (diagnostics
// carry location but no caret rendering).
func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// NewParserWithSource attaches the original source text so diagnostics
// can render a caret under the offending column.
func NewParserWithSource(tokens []lexer.Token, source, file string) *Parser {
	return &Parser{tokens: tokens, file: file, sourceLines: strings.Split(source, "\n")}
}

// ParseProgram parses a full top-level program: a flat statement list
// terminated by EOF, recovering diagnostics raised via panic (the
// teacher's own error-propagation idiom) into p.Errors.
func (p *Parser) ParseProgram() (stmts []Stmt, err error) {
	defer func() {
		if r := recover(); r != nil {
			if d, ok := r.(*ecmaerr.Diagnostic); ok {
				p.Errors = append(p.Errors, d)
				err = d
				return
			}
			panic(r)
		}
	}()
	for !p.isAtEnd() {
		stmts = append(stmts, p.statement())
	}
	return stmts, nil
}

func (p *Parser) statement() Stmt {
	switch p.peek().Type {
	case lexer.TokenLBrace:
		p.advance()
		return p.blockBody()
	case lexer.TokenSemicolon:
		p.advance()
		return &EmptyStmt{}
	case lexer.TokenVar, lexer.TokenConst:
		kind := string(p.advance().Type)
		s := p.varDecl(kind)
		p.consumeSemicolon()
		return s
	case lexer.TokenIdent:
		if p.peek().Lexeme == "let" && (p.checkNext(lexer.TokenIdent) || p.checkNext(lexer.TokenLBracket) || p.checkNext(lexer.TokenLBrace)) {
			p.advance()
			s := p.varDecl("let")
			p.consumeSemicolon()
			return s
		}
		if p.checkNext(lexer.TokenColon) {
			label := p.advance().Lexeme
			p.advance() // ':'
			return &LabeledStmt{Label: label, Body: p.statement()}
		}
	case lexer.TokenFunction:
		p.advance()
		return &FunctionDeclStmt{Fn: p.functionTail(false, false)}
	case lexer.TokenClass:
		p.advance()
		return &ClassDeclStmt{Class: p.classTail()}
	case lexer.TokenIf:
		p.advance()
		return p.ifStatement()
	case lexer.TokenWhile:
		p.advance()
		return p.whileStatement()
	case lexer.TokenDo:
		p.advance()
		return p.doWhileStatement()
	case lexer.TokenFor:
		p.advance()
		return p.forStatement()
	case lexer.TokenReturn:
		p.advance()
		var val Expr
		if !p.check(lexer.TokenSemicolon) && !p.check(lexer.TokenRBrace) && !p.isAtEnd() && !p.peek().NewlineBefore {
			val = p.expression()
		}
		p.consumeSemicolon()
		return &ReturnStmt{Value: val}
	case lexer.TokenBreak:
		p.advance()
		label := ""
		if p.check(lexer.TokenIdent) && !p.peek().NewlineBefore {
			label = p.advance().Lexeme
		}
		p.consumeSemicolon()
		return &BreakStmt{Label: label}
	case lexer.TokenContinue:
		p.advance()
		label := ""
		if p.check(lexer.TokenIdent) && !p.peek().NewlineBefore {
			label = p.advance().Lexeme
		}
		p.consumeSemicolon()
		return &ContinueStmt{Label: label}
	case lexer.TokenThrow:
		p.advance()
		val := p.expression()
		p.consumeSemicolon()
		return &ThrowStmt{Value: val}
	case lexer.TokenTry:
		p.advance()
		return p.tryStatement()
	case lexer.TokenSwitch:
		p.advance()
		return p.switchStatement()
	}
	expr := p.expression()
	p.consumeSemicolon()
	return &ExpressionStmt{Expr: expr}
}

func (p *Parser) blockBody() *BlockStmt {
	var stmts []Stmt
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		stmts = append(stmts, p.statement())
	}
	p.consume(lexer.TokenRBrace, "expected '}'")
	return &BlockStmt{Stmts: stmts}
}

func (p *Parser) varDecl(kind string) *VarDeclStmt {
	var decls []Declarator
	for {
		name := p.consume(lexer.TokenIdent, "expected binding name").Lexeme
		var init Expr
		if p.match(lexer.TokenEqual) {
			init = p.assignment()
		}
		decls = append(decls, Declarator{Name: name, Init: init})
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	return &VarDeclStmt{Kind: kind, Declarations: decls}
}

func (p *Parser) ifStatement() Stmt {
	p.consume(lexer.TokenLParen, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(lexer.TokenRParen, "expected ')' after condition")
	then := p.statement()
	var elseBranch Stmt
	if p.match(lexer.TokenElse) {
		elseBranch = p.statement()
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseBranch}
}

func (p *Parser) whileStatement() Stmt {
	p.consume(lexer.TokenLParen, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(lexer.TokenRParen, "expected ')' after condition")
	return &WhileStmt{Cond: cond, Body: p.statement()}
}

func (p *Parser) doWhileStatement() Stmt {
	body := p.statement()
	p.consume(lexer.TokenWhile, "expected 'while' after do-body")
	p.consume(lexer.TokenLParen, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(lexer.TokenRParen, "expected ')' after condition")
	p.consumeSemicolon()
	return &DoWhileStmt{Body: body, Cond: cond}
}

func (p *Parser) forStatement() Stmt {
	p.consume(lexer.TokenLParen, "expected '(' after 'for'")

	declKind := ""
	if p.check(lexer.TokenVar) || p.check(lexer.TokenConst) || (p.check(lexer.TokenIdent) && p.peek().Lexeme == "let") {
		declKind = string(p.advance().Type)
		if declKind == "IDENT" {
			declKind = "let"
		}
		name := p.consume(lexer.TokenIdent, "expected binding name").Lexeme
		if p.check(lexer.TokenIdent) && (p.peek().Lexeme == "of") || p.check(lexer.TokenIn) {
			forOf := p.peek().Lexeme == "of"
			p.advance()
			object := p.expression()
			p.consume(lexer.TokenRParen, "expected ')'")
			return &ForInStmt{DeclKind: declKind, Name: name, Object: object, Body: p.statement(), ForOf: forOf}
		}
		var init Expr
		if p.match(lexer.TokenEqual) {
			init = p.assignment()
		}
		decls := []Declarator{{Name: name, Init: init}}
		for p.match(lexer.TokenComma) {
			n2 := p.consume(lexer.TokenIdent, "expected binding name").Lexeme
			var i2 Expr
			if p.match(lexer.TokenEqual) {
				i2 = p.assignment()
			}
			decls = append(decls, Declarator{Name: n2, Init: i2})
		}
		p.consume(lexer.TokenSemicolon, "expected ';' in for initializer")
		return p.forClassicTail(&VarDeclStmt{Kind: declKind, Declarations: decls})
	}

	if p.check(lexer.TokenSemicolon) {
		p.advance()
		return p.forClassicTail(nil)
	}

	expr := p.expression()
	if (p.check(lexer.TokenIdent) && p.peek().Lexeme == "of") || p.check(lexer.TokenIn) {
		forOf := p.peek().Lexeme == "of"
		p.advance()
		object := p.expression()
		p.consume(lexer.TokenRParen, "expected ')'")
		return &ForInStmt{Target: expr, Object: object, Body: p.statement(), ForOf: forOf}
	}
	p.consume(lexer.TokenSemicolon, "expected ';' in for initializer")
	return p.forClassicTail(&ExpressionStmt{Expr: expr})
}

func (p *Parser) forClassicTail(init Stmt) Stmt {
	var cond, update Expr
	if !p.check(lexer.TokenSemicolon) {
		cond = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "expected ';' after for condition")
	if !p.check(lexer.TokenRParen) {
		update = p.expression()
	}
	p.consume(lexer.TokenRParen, "expected ')' after for clauses")
	return &ForStmt{Init: init, Cond: cond, Update: update, Body: p.statement()}
}

func (p *Parser) tryStatement() Stmt {
	p.consume(lexer.TokenLBrace, "expected '{' after 'try'")
	block := p.blockBody()
	s := &TryStmt{Block: block}
	if p.match(lexer.TokenCatch) {
		s.HasCatch = true
		if p.match(lexer.TokenLParen) {
			s.CatchParam = p.consume(lexer.TokenIdent, "expected catch parameter").Lexeme
			p.consume(lexer.TokenRParen, "expected ')' after catch parameter")
		}
		p.consume(lexer.TokenLBrace, "expected '{' after 'catch'")
		s.CatchBlock = p.blockBody()
	}
	if p.match(lexer.TokenFinally) {
		p.consume(lexer.TokenLBrace, "expected '{' after 'finally'")
		s.FinallyBlock = p.blockBody()
	}
	if !s.HasCatch && s.FinallyBlock == nil {
		p.fail("try statement requires a catch or finally clause", p.previous())
	}
	return s
}

func (p *Parser) switchStatement() Stmt {
	p.consume(lexer.TokenLParen, "expected '(' after 'switch'")
	disc := p.expression()
	p.consume(lexer.TokenRParen, "expected ')' after switch discriminant")
	p.consume(lexer.TokenLBrace, "expected '{' to start switch body")
	var cases []SwitchCase
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		var test Expr
		if p.match(lexer.TokenCase) {
			test = p.expression()
		} else {
			p.consume(lexer.TokenDefault, "expected 'case' or 'default'")
		}
		p.consume(lexer.TokenColon, "expected ':' after case test")
		var stmts []Stmt
		for !p.check(lexer.TokenCase) && !p.check(lexer.TokenDefault) && !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
			stmts = append(stmts, p.statement())
		}
		cases = append(cases, SwitchCase{Test: test, Stmts: stmts})
	}
	p.consume(lexer.TokenRBrace, "expected '}' to close switch body")
	return &SwitchStmt{Discriminant: disc, Cases: cases}
}

func (p *Parser) classTail() *ClassExpr {
	c := &ClassExpr{}
	if p.check(lexer.TokenIdent) {
		c.Name = p.advance().Lexeme
	}
	if p.match(lexer.TokenExtends) {
		c.Superclass = p.unaryOrHigher()
	}
	p.consume(lexer.TokenLBrace, "expected '{' to start class body")
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		if p.match(lexer.TokenSemicolon) {
			continue
		}
		c.Methods = append(c.Methods, p.classMember())
	}
	p.consume(lexer.TokenRBrace, "expected '}' to close class body")
	return c
}

func (p *Parser) classMember() ClassMember {
	static := false
	if p.check(lexer.TokenIdent) && p.peek().Lexeme == "static" && !p.checkNext(lexer.TokenLParen) {
		static = true
		p.advance()
	}
	kind := "method"
	if p.check(lexer.TokenIdent) && (p.peek().Lexeme == "get" || p.peek().Lexeme == "set") && !p.checkNext(lexer.TokenLParen) {
		kind = p.advance().Lexeme
	}
	key, computed := p.propertyKey()
	if name, ok := key.(*Identifier); ok && name.Name == "constructor" && kind == "method" {
		kind = "constructor"
	}
	if p.check(lexer.TokenLParen) {
		fn := p.functionTail(false, false)
		return ClassMember{Key: key, Computed: computed, Kind: kind, Static: static, Value: fn}
	}
	var field Expr
	if p.match(lexer.TokenEqual) {
		field = p.assignment()
	}
	p.consumeSemicolon()
	return ClassMember{Key: key, Computed: computed, Kind: "field", Static: static, Field: field}
}

func (p *Parser) propertyKey() (Expr, bool) {
	if p.match(lexer.TokenLBracket) {
		e := p.assignment()
		p.consume(lexer.TokenRBracket, "expected ']' after computed key")
		return e, true
	}
	if p.check(lexer.TokenString) {
		return &StringLiteral{Value: p.advance().Value}, false
	}
	if p.check(lexer.TokenNumber) {
		return &NumberLiteral{Value: parseNumberLexeme(p.advance().Lexeme)}, false
	}
	return &Identifier{Name: p.advance().Lexeme}, false
}

// functionTail parses params+body for a function expr/decl/method
// positioned right after `function [name]` or at a method's name.
func (p *Parser) functionTail(isArrow, isAsync bool) *FunctionExpr {
	fn := &FunctionExpr{IsAsync: isAsync}
	if p.check(lexer.TokenIdent) {
		fn.Name = p.advance().Lexeme
	}
	if p.match(lexer.TokenStar) {
		fn.IsGenerator = true
	}
	fn.Params = p.paramList()
	p.consume(lexer.TokenLBrace, "expected '{' to start function body")
	p.inFunction++
	fn.Body = p.blockBody().Stmts
	p.inFunction--
	return fn
}

func (p *Parser) paramList() []Param {
	p.consume(lexer.TokenLParen, "expected '(' to start parameter list")
	var params []Param
	for !p.check(lexer.TokenRParen) && !p.isAtEnd() {
		var param Param
		if p.match(lexer.TokenEllipsis) {
			param.Rest = true
		}
		param.Name = p.consume(lexer.TokenIdent, "expected parameter name").Lexeme
		if p.match(lexer.TokenEqual) {
			param.Default = p.assignment()
		}
		params = append(params, param)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRParen, "expected ')' after parameters")
	return params
}

// --- expression parsing ---

func (p *Parser) expression() Expr {
	e := p.assignment()
	if p.check(lexer.TokenComma) {
		exprs := []Expr{e}
		for p.match(lexer.TokenComma) {
			exprs = append(exprs, p.assignment())
		}
		return &SequenceExpr{Exprs: exprs}
	}
	return e
}

func (p *Parser) assignment() Expr {
	if p.check(lexer.TokenYield) {
		p.advance()
		delegate := p.match(lexer.TokenStar)
		var arg Expr
		if !p.isAssignmentBoundary() {
			arg = p.assignment()
		}
		return &YieldExpr{Argument: arg, Delegate: delegate}
	}

	left := p.conditional()
	if op, ok := p.peek(), assignOps[p.peek().Type]; ok {
		p.advance()
		value := p.assignment()
		return &AssignExpr{Target: left, Operator: string(op.Type), Value: value}
	}
	return left
}

func (p *Parser) isAssignmentBoundary() bool {
	switch p.peek().Type {
	case lexer.TokenSemicolon, lexer.TokenRBrace, lexer.TokenRParen, lexer.TokenRBracket,
		lexer.TokenComma, lexer.TokenColon, lexer.TokenEOF:
		return true
	}
	return p.peek().NewlineBefore
}

func (p *Parser) conditional() Expr {
	test := p.binary(1)
	if p.match(lexer.TokenQuestion) {
		then := p.assignment()
		p.consume(lexer.TokenColon, "expected ':' in conditional expression")
		elseExpr := p.assignment()
		return &ConditionalExpr{Test: test, Then: then, Else: elseExpr}
	}
	return test
}

func (p *Parser) binary(minPrec int) Expr {
	left := p.unaryOrHigher()
	for {
		tok := p.peek()
		prec, ok := precedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		nextMin := prec + 1
		if tok.Type == lexer.TokenStarStar { // right-associative
			nextMin = prec
		}
		right := p.binary(nextMin)
		switch tok.Type {
		case lexer.TokenAndAnd, lexer.TokenOrOr, lexer.TokenCoalesce:
			left = &LogicalExpr{Left: left, Operator: string(tok.Type), Right: right}
		default:
			left = &BinaryExpr{Left: left, Operator: string(tok.Type), Right: right}
		}
	}
	return left
}

func (p *Parser) unaryOrHigher() Expr {
	switch p.peek().Type {
	case lexer.TokenNot, lexer.TokenMinus, lexer.TokenPlus, lexer.TokenTilde,
		lexer.TokenTypeof, lexer.TokenVoid, lexer.TokenDelete:
		op := p.advance()
		return &UnaryExpr{Operator: string(op.Type), Operand: p.unaryOrHigher()}
	case lexer.TokenPlusPlus, lexer.TokenMinusMinus:
		op := p.advance()
		return &UpdateExpr{Operator: string(op.Type), Operand: p.unaryOrHigher(), Prefix: true}
	}
	if p.check(lexer.TokenIdent) && p.peek().Lexeme == "await" {
		p.advance()
		return &AwaitExpr{Argument: p.unaryOrHigher()}
	}
	return p.postfix()
}

func (p *Parser) postfix() Expr {
	e := p.callOrMember()
	if (p.check(lexer.TokenPlusPlus) || p.check(lexer.TokenMinusMinus)) && !p.peek().NewlineBefore {
		op := p.advance()
		return &UpdateExpr{Operator: string(op.Type), Operand: e, Prefix: false}
	}
	return e
}

func (p *Parser) callOrMember() Expr {
	var e Expr
	if p.match(lexer.TokenNew) {
		callee := p.memberOnly(p.primary())
		var args []Expr
		if p.match(lexer.TokenLParen) {
			args, _ = p.argList()
		}
		e = &NewExpr{Callee: callee, Args: args}
	} else {
		e = p.primary()
	}
	for {
		switch {
		case p.match(lexer.TokenDot):
			name := p.advance().Lexeme
			e = &MemberExpr{Object: e, Property: &Identifier{Name: name}, Computed: false}
		case p.match(lexer.TokenLBracket):
			idx := p.expression()
			p.consume(lexer.TokenRBracket, "expected ']' after computed member")
			e = &MemberExpr{Object: e, Property: idx, Computed: true}
		case p.check(lexer.TokenLParen):
			p.advance()
			args, spreads := p.argList()
			e = &CallExpr{Callee: e, Args: args, Spreads: spreads}
		case p.check(lexer.TokenTemplateHead), p.check(lexer.TokenTemplateNoSubstitution):
			e = &CallExpr{Callee: e, Args: []Expr{p.templateLiteral()}}
		default:
			return e
		}
	}
}

func (p *Parser) memberOnly(start Expr) Expr {
	e := start
	for {
		switch {
		case p.match(lexer.TokenDot):
			name := p.advance().Lexeme
			e = &MemberExpr{Object: e, Property: &Identifier{Name: name}, Computed: false}
		case p.match(lexer.TokenLBracket):
			idx := p.expression()
			p.consume(lexer.TokenRBracket, "expected ']' after computed member")
			e = &MemberExpr{Object: e, Property: idx, Computed: true}
		default:
			return e
		}
	}
}

func (p *Parser) argList() ([]Expr, []bool) {
	var args []Expr
	var spreads []bool
	for !p.check(lexer.TokenRParen) && !p.isAtEnd() {
		if p.match(lexer.TokenEllipsis) {
			args = append(args, p.assignment())
			spreads = append(spreads, true)
		} else {
			args = append(args, p.assignment())
			spreads = append(spreads, false)
		}
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRParen, "expected ')' after arguments")
	return args, spreads
}

func (p *Parser) primary() Expr {
	tok := p.advance()
	switch tok.Type {
	case lexer.TokenNumber:
		return &NumberLiteral{Value: parseNumberLexeme(tok.Lexeme)}
	case lexer.TokenString:
		return &StringLiteral{Value: tok.Value}
	case lexer.TokenTrue:
		return &BooleanLiteral{Value: true}
	case lexer.TokenFalse:
		return &BooleanLiteral{Value: false}
	case lexer.TokenNull:
		return &NullLiteral{}
	case lexer.TokenThis:
		return &ThisExpr{}
	case lexer.TokenSuper:
		return &SuperExpr{}
	case lexer.TokenRegex:
		pat, flags := splitRegex(tok.Lexeme)
		return &RegexLiteral{Pattern: pat, Flags: flags}
	case lexer.TokenIdent:
		if tok.Lexeme == "async" && p.check(lexer.TokenFunction) {
			p.advance()
			return p.functionTail(false, true)
		}
		if p.arrowFollows() {
			return p.arrowFromIdent(tok.Lexeme)
		}
		return &Identifier{Name: tok.Lexeme}
	case lexer.TokenFunction:
		return p.functionTail(false, false)
	case lexer.TokenClass:
		return p.classTail()
	case lexer.TokenTemplateHead, lexer.TokenTemplateNoSubstitution:
		p.current--
		return p.templateLiteral()
	case lexer.TokenLBracket:
		return p.arrayLiteral()
	case lexer.TokenLBrace:
		return p.objectLiteral()
	case lexer.TokenLParen:
		if arrow := p.tryParenArrow(); arrow != nil {
			return arrow
		}
		e := p.expression()
		p.consume(lexer.TokenRParen, "expected ')' after expression")
		return e
	}
	p.fail("unexpected token in expression", tok)
	return nil
}

func (p *Parser) arrowFollows() bool {
	return p.check(lexer.TokenArrow) && !p.peek().NewlineBefore
}

func (p *Parser) arrowFromIdent(name string) Expr {
	p.advance() // '=>'
	return p.arrowBody([]Param{{Name: name}})
}

// tryParenArrow speculatively parses `(params) =>`; on mismatch it
// rewinds and returns nil so the caller falls back to a parenthesized
// expression.
func (p *Parser) tryParenArrow() Expr {
	saved := p.current
	p.current--
	params, ok := p.tryParamList()
	if !ok || !p.check(lexer.TokenArrow) {
		p.current = saved
		return nil
	}
	p.advance()
	return p.arrowBody(params)
}

func (p *Parser) tryParamList() (params []Param, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	params = p.paramList()
	return params, true
}

func (p *Parser) arrowBody(params []Param) Expr {
	fn := &FunctionExpr{IsArrow: true, Params: params}
	if p.check(lexer.TokenLBrace) {
		p.advance()
		fn.Body = p.blockBody().Stmts
	} else {
		fn.ExprBody = p.assignment()
	}
	return fn
}

func (p *Parser) arrayLiteral() Expr {
	e := &ArrayLiteral{}
	for !p.check(lexer.TokenRBracket) && !p.isAtEnd() {
		if p.check(lexer.TokenComma) {
			e.Elements = append(e.Elements, nil)
			e.Spreads = append(e.Spreads, false)
			p.advance()
			continue
		}
		spread := p.match(lexer.TokenEllipsis)
		e.Elements = append(e.Elements, p.assignment())
		e.Spreads = append(e.Spreads, spread)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRBracket, "expected ']' after array elements")
	return e
}

func (p *Parser) objectLiteral() Expr {
	e := &ObjectLiteral{}
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		if p.match(lexer.TokenEllipsis) {
			e.Properties = append(e.Properties, ObjectProperty{Value: p.assignment(), Kind: "spread"})
			if !p.match(lexer.TokenComma) {
				break
			}
			continue
		}
		kind := "init"
		if p.check(lexer.TokenIdent) && (p.peek().Lexeme == "get" || p.peek().Lexeme == "set") &&
			!p.checkNext(lexer.TokenColon) && !p.checkNext(lexer.TokenComma) && !p.checkNext(lexer.TokenRBrace) {
			kind = p.advance().Lexeme
		}
		key, computed := p.propertyKey()
		prop := ObjectProperty{Key: key, Computed: computed, Kind: kind}
		switch {
		case p.check(lexer.TokenLParen):
			prop.Value = p.functionTail(false, false)
			prop.Kind = "method"
			if kind == "get" || kind == "set" {
				prop.Kind = kind
			}
		case p.match(lexer.TokenColon):
			prop.Value = p.assignment()
		default:
			prop.Shorthand = true
			if id, ok := key.(*Identifier); ok {
				prop.Value = &Identifier{Name: id.Name}
			}
		}
		e.Properties = append(e.Properties, prop)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRBrace, "expected '}' after object literal")
	return e
}

func (p *Parser) templateLiteral() Expr {
	t := &TemplateLiteral{}
	for {
		tok := p.advance()
		t.Quasis = append(t.Quasis, tok.Value)
		if tok.Type == lexer.TokenTemplateNoSubstitution || tok.Type == lexer.TokenTemplateTail {
			break
		}
		t.Exprs = append(t.Exprs, p.expression())
		if !p.check(lexer.TokenTemplateMiddle) && !p.check(lexer.TokenTemplateTail) {
			p.fail("expected continuation of template literal", p.peek())
		}
	}
	return t
}

func splitRegex(lexeme string) (pattern, flags string) {
	last := strings.LastIndexByte(lexeme, '/')
	return lexeme[1:last], lexeme[last+1:]
}

func parseNumberLexeme(lexeme string) float64 {
	switch {
	case strings.HasPrefix(lexeme, "0x") || strings.HasPrefix(lexeme, "0X"):
		n, _ := strconv.ParseInt(lexeme[2:], 16, 64)
		return float64(n)
	case strings.HasPrefix(lexeme, "0o") || strings.HasPrefix(lexeme, "0O"):
		n, _ := strconv.ParseInt(lexeme[2:], 8, 64)
		return float64(n)
	case strings.HasPrefix(lexeme, "0b") || strings.HasPrefix(lexeme, "0B"):
		n, _ := strconv.ParseInt(lexeme[2:], 2, 64)
		return float64(n)
	default:
		n, _ := strconv.ParseFloat(lexeme, 64)
		return n
	}
}

// --- cursor utilities (teacher's match/consume/check/advance/peek shape) ---

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail(msg, p.peek())
	return lexer.Token{}
}

// consumeSemicolon implements automatic semicolon insertion (spec
// §4.5): a ';' is consumed if present; otherwise ASI permits omission
// before '}', at EOF, or when the next token began on a new line.
func (p *Parser) consumeSemicolon() {
	if p.match(lexer.TokenSemicolon) {
		return
	}
	if p.check(lexer.TokenRBrace) || p.isAtEnd() || p.peek().NewlineBefore {
		return
	}
	p.fail("expected ';'", p.peek())
}

func (p *Parser) check(t lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

func (p *Parser) checkNext(t lexer.TokenType) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == t
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.tokens[p.current-1]
}

func (p *Parser) previous() lexer.Token { return p.tokens[p.current-1] }

func (p *Parser) peek() lexer.Token { return p.tokens[p.current] }

func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.TokenEOF }

func (p *Parser) fail(msg string, tok lexer.Token) {
	err := ecmaerr.NewSyntaxError(msg+" (got '"+tok.Lexeme+"')", p.file, tok.Line, tok.Column)
	if p.sourceLines != nil && tok.Line > 0 && tok.Line <= len(p.sourceLines) {
		err = err.WithSource(p.sourceLines[tok.Line-1])
	}
	panic(err)
}

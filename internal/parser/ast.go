package parser

// Expr is any ECMAScript expression node (spec §4.5/§4.6's expression
// grammar). The visitor shape mirrors the teacher's Expr/ExprVisitor
// pair, generalized from Sentra's handful of expression forms to the
// full ES5.1/ES2015+ expression grammar the compiler needs to lower to
// bytecode.
type Expr interface {
	Accept(visitor ExprVisitor) interface{}
}

// Identifier: x
type Identifier struct {
	Name string
}

func (e *Identifier) Accept(v ExprVisitor) interface{} { return v.VisitIdentifier(e) }

// NumberLiteral: 42, 3.14, 0x1F
type NumberLiteral struct {
	Value float64
}

func (e *NumberLiteral) Accept(v ExprVisitor) interface{} { return v.VisitNumberLiteral(e) }

// StringLiteral: "abc"
type StringLiteral struct {
	Value string
}

func (e *StringLiteral) Accept(v ExprVisitor) interface{} { return v.VisitStringLiteral(e) }

// BooleanLiteral: true, false
type BooleanLiteral struct {
	Value bool
}

func (e *BooleanLiteral) Accept(v ExprVisitor) interface{} { return v.VisitBooleanLiteral(e) }

// NullLiteral: null
type NullLiteral struct{}

func (e *NullLiteral) Accept(v ExprVisitor) interface{} { return v.VisitNullLiteral(e) }

// ThisExpr: this
type ThisExpr struct{}

func (e *ThisExpr) Accept(v ExprVisitor) interface{} { return v.VisitThisExpr(e) }

// SuperExpr: super (only legal in a derived constructor / method body)
type SuperExpr struct{}

func (e *SuperExpr) Accept(v ExprVisitor) interface{} { return v.VisitSuperExpr(e) }

// TemplateLiteral: `a${b}c` — Quasis has len(Exprs)+1 raw text pieces.
type TemplateLiteral struct {
	Quasis []string
	Exprs  []Expr
}

func (e *TemplateLiteral) Accept(v ExprVisitor) interface{} { return v.VisitTemplateLiteral(e) }

// RegexLiteral: /abc/g
type RegexLiteral struct {
	Pattern string
	Flags   string
}

func (e *RegexLiteral) Accept(v ExprVisitor) interface{} { return v.VisitRegexLiteral(e) }

// ArrayLiteral: [a, , ...b]. A nil element is an elision.
type ArrayLiteral struct {
	Elements []Expr
	Spreads  []bool // Spreads[i] true iff Elements[i] is a SpreadElement
}

func (e *ArrayLiteral) Accept(v ExprVisitor) interface{} { return v.VisitArrayLiteral(e) }

// ObjectProperty is one member of an ObjectLiteral.
type ObjectProperty struct {
	Key       Expr
	Value     Expr
	Computed  bool
	Shorthand bool
	Kind      string // "init", "get", "set", "spread", "method"
}

// ObjectLiteral: {a: 1, [b]: 2, ...c}
type ObjectLiteral struct {
	Properties []ObjectProperty
}

func (e *ObjectLiteral) Accept(v ExprVisitor) interface{} { return v.VisitObjectLiteral(e) }

// FunctionExpr covers function expressions, declarations, and methods
// (IsArrow distinguishes concise-body arrow functions, which also reuse
// this node for their lowered form).
type FunctionExpr struct {
	Name        string // "" for anonymous
	Params      []Param
	Body        []Stmt
	IsArrow     bool
	IsGenerator bool
	IsAsync     bool
	ExprBody    Expr // set instead of Body for an arrow's concise body
}

func (e *FunctionExpr) Accept(v ExprVisitor) interface{} { return v.VisitFunctionExpr(e) }

// Param is one formal parameter, supporting defaults and rest.
type Param struct {
	Name    string
	Default Expr
	Rest    bool
}

// UnaryExpr: !x, -x, +x, ~x, typeof x, void x, delete x
type UnaryExpr struct {
	Operator string
	Operand  Expr
}

func (e *UnaryExpr) Accept(v ExprVisitor) interface{} { return v.VisitUnaryExpr(e) }

// UpdateExpr: ++x, x++, --x, x--
type UpdateExpr struct {
	Operator string
	Operand  Expr
	Prefix   bool
}

func (e *UpdateExpr) Accept(v ExprVisitor) interface{} { return v.VisitUpdateExpr(e) }

// BinaryExpr: a + b, a instanceof b, a in b, ...
type BinaryExpr struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (e *BinaryExpr) Accept(v ExprVisitor) interface{} { return v.VisitBinaryExpr(e) }

// LogicalExpr: a && b, a || b, a ?? b (short-circuiting, never a plain BinaryExpr)
type LogicalExpr struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (e *LogicalExpr) Accept(v ExprVisitor) interface{} { return v.VisitLogicalExpr(e) }

// AssignExpr: x = v, x += v, ...
type AssignExpr struct {
	Target   Expr
	Operator string // "=", "+=", "-=", ...
	Value    Expr
}

func (e *AssignExpr) Accept(v ExprVisitor) interface{} { return v.VisitAssignExpr(e) }

// ConditionalExpr: cond ? a : b
type ConditionalExpr struct {
	Test Expr
	Then Expr
	Else Expr
}

func (e *ConditionalExpr) Accept(v ExprVisitor) interface{} { return v.VisitConditionalExpr(e) }

// CallExpr: callee(args...); Optional marks an `?.()` optional call.
type CallExpr struct {
	Callee   Expr
	Args     []Expr
	Spreads  []bool
	Optional bool
}

func (e *CallExpr) Accept(v ExprVisitor) interface{} { return v.VisitCallExpr(e) }

// NewExpr: new callee(args...)
type NewExpr struct {
	Callee Expr
	Args   []Expr
}

func (e *NewExpr) Accept(v ExprVisitor) interface{} { return v.VisitNewExpr(e) }

// MemberExpr: object.property or object[property]; Optional marks `?.`.
type MemberExpr struct {
	Object   Expr
	Property Expr
	Computed bool
	Optional bool
}

func (e *MemberExpr) Accept(v ExprVisitor) interface{} { return v.VisitMemberExpr(e) }

// SequenceExpr: a, b, c
type SequenceExpr struct {
	Exprs []Expr
}

func (e *SequenceExpr) Accept(v ExprVisitor) interface{} { return v.VisitSequenceExpr(e) }

// SpreadElement wraps an expression preceded by `...` inside an array
// literal, call argument list, or object literal.
type SpreadElement struct {
	Argument Expr
}

func (e *SpreadElement) Accept(v ExprVisitor) interface{} { return v.VisitSpreadElement(e) }

// ClassExpr: class [Name] [extends Super] { ...body }
type ClassExpr struct {
	Name       string
	Superclass Expr
	Methods    []ClassMember
}

// ClassMember is one method or field inside a ClassExpr.
type ClassMember struct {
	Key      Expr
	Computed bool
	Kind     string // "method", "get", "set", "constructor", "field"
	Static   bool
	Value    *FunctionExpr // nil for a field
	Field    Expr          // set for Kind == "field"
}

func (e *ClassExpr) Accept(v ExprVisitor) interface{} { return v.VisitClassExpr(e) }

// YieldExpr: yield [expr], yield* expr
type YieldExpr struct {
	Argument Expr
	Delegate bool
}

func (e *YieldExpr) Accept(v ExprVisitor) interface{} { return v.VisitYieldExpr(e) }

// AwaitExpr: await expr
type AwaitExpr struct {
	Argument Expr
}

func (e *AwaitExpr) Accept(v ExprVisitor) interface{} { return v.VisitAwaitExpr(e) }

// ExprVisitor dispatches over every expression node kind.
type ExprVisitor interface {
	VisitIdentifier(e *Identifier) interface{}
	VisitNumberLiteral(e *NumberLiteral) interface{}
	VisitStringLiteral(e *StringLiteral) interface{}
	VisitBooleanLiteral(e *BooleanLiteral) interface{}
	VisitNullLiteral(e *NullLiteral) interface{}
	VisitThisExpr(e *ThisExpr) interface{}
	VisitSuperExpr(e *SuperExpr) interface{}
	VisitTemplateLiteral(e *TemplateLiteral) interface{}
	VisitRegexLiteral(e *RegexLiteral) interface{}
	VisitArrayLiteral(e *ArrayLiteral) interface{}
	VisitObjectLiteral(e *ObjectLiteral) interface{}
	VisitFunctionExpr(e *FunctionExpr) interface{}
	VisitUnaryExpr(e *UnaryExpr) interface{}
	VisitUpdateExpr(e *UpdateExpr) interface{}
	VisitBinaryExpr(e *BinaryExpr) interface{}
	VisitLogicalExpr(e *LogicalExpr) interface{}
	VisitAssignExpr(e *AssignExpr) interface{}
	VisitConditionalExpr(e *ConditionalExpr) interface{}
	VisitCallExpr(e *CallExpr) interface{}
	VisitNewExpr(e *NewExpr) interface{}
	VisitMemberExpr(e *MemberExpr) interface{}
	VisitSequenceExpr(e *SequenceExpr) interface{}
	VisitSpreadElement(e *SpreadElement) interface{}
	VisitClassExpr(e *ClassExpr) interface{}
	VisitYieldExpr(e *YieldExpr) interface{}
	VisitAwaitExpr(e *AwaitExpr) interface{}
}

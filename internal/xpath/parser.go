// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xpath

import (
	"strconv"

	"github.com/nacmcore/core/internal/token"
)

// parser is a recursive-descent compiler from a (already lexed) XPath token
// chain to an Expr tree, following XPath 1.0 operator precedence from low
// to high: Or, And, Equality, Relational, Additive, Multiplicative, Unary,
// Union, Path/Primary.
type parser struct {
	c *token.Chain
}

func parseExpr(c *token.Chain) (Expr, error) {
	p := &parser{c: c}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.c.AtEnd() {
		return nil, ErrSyntax.New("unexpected trailing tokens")
	}
	return e, nil
}

func (p *parser) cur() *token.Token  { return p.c.Cur() }
func (p *parser) advance() *token.Token { return p.c.Advance() }

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseEquality() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.curIs(token.KindEquals):
			op = OpEq
		case p.curIs(token.KindNotEqual):
			op = OpNe
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseRelational() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.curIs(token.KindLT):
			op = OpLt
		case p.curIs(token.KindLEqual):
			op = OpLe
		case p.curIs(token.KindGT):
			op = OpGt
		case p.curIs(token.KindGEqual):
			op = OpGe
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.curIs(token.KindPlus):
			op = OpAdd
		case p.curIs(token.KindMinus):
			op = OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.curIs(token.KindStar):
			op = OpMul
		case p.isKeyword("div"):
			op = OpDiv
		case p.isKeyword("mod"):
			op = OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.curIs(token.KindMinus) {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Operand: operand}, nil
	}
	return p.parseUnion()
}

func (p *parser) parseUnion() (Expr, error) {
	left, err := p.parsePathOrPrimary()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.KindBar) {
		p.advance()
		right, err := p.parsePathOrPrimary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpUnion, Left: left, Right: right}
	}
	return left, nil
}

// parsePathOrPrimary handles both PrimaryExpr (literal/var/function/
// parenthesized) and location paths (abbreviated: '/', '//', '.', '..',
// '@', name tests, predicates).
func (p *parser) parsePathOrPrimary() (Expr, error) {
	if p.curIs(token.KindFSlash) || p.curIs(token.KindDblFSlash) {
		return p.parseLocationPath(true)
	}
	if p.looksLikeStep() {
		return p.parseLocationPath(false)
	}
	return p.parsePrimary()
}

func (p *parser) looksLikeStep() bool {
	t := p.cur()
	if t == nil {
		return false
	}
	switch t.Kind {
	case token.KindPeriod, token.KindAtSign, token.KindStar, token.KindNCNameStar:
		return true
	case token.KindIdentifier, token.KindPrefixedString, token.KindModPrefixedString:
		// Distinguish a name-test step from a function call: a function
		// call is followed by '('.
		nxt := p.c.Peek(1)
		return nxt == nil || nxt.Kind != token.KindLParen
	}
	return false
}

func (p *parser) parseLocationPath(absolute bool) (Expr, error) {
	lp := &LocationPath{Absolute: absolute}
	if absolute {
		descendant := p.curIs(token.KindDblFSlash)
		p.advance()
		if descendant {
			lp.Steps = append(lp.Steps, &Step{Axis: AxisDescendantOrSelf, Test: NodeTest{Wildcard: true}})
		}
		if !p.looksLikeStep() {
			return lp, nil
		}
	}

	for {
		st, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		lp.Steps = append(lp.Steps, st)

		if p.curIs(token.KindFSlash) || p.curIs(token.KindDblFSlash) {
			descendant := p.curIs(token.KindDblFSlash)
			p.advance()
			if descendant {
				lp.Steps = append(lp.Steps, &Step{Axis: AxisDescendantOrSelf, Test: NodeTest{Wildcard: true}})
			}
			continue
		}
		break
	}
	return lp, nil
}

func (p *parser) parseStep() (*Step, error) {
	st := &Step{Axis: AxisChild}

	switch {
	case p.curIs(token.KindPeriod):
		p.advance()
		if p.curIs(token.KindPeriod) {
			p.advance()
			st.Axis = AxisParent
		} else {
			st.Axis = AxisSelf
		}
		st.Test = NodeTest{Wildcard: true}
		return st, nil

	case p.curIs(token.KindAtSign):
		p.advance()
		st.Axis = AxisAttribute
		test, err := p.parseNodeTest()
		if err != nil {
			return nil, err
		}
		st.Test = test

	default:
		test, err := p.parseNodeTest()
		if err != nil {
			return nil, err
		}
		st.Test = test
	}

	for p.curIs(token.KindLBracket) {
		p.advance()
		pred, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.curIs(token.KindRBracket) {
			return nil, ErrSyntax.New("expected ']'")
		}
		p.advance()
		st.Predicates = append(st.Predicates, pred)
	}
	return st, nil
}

func (p *parser) parseNodeTest() (NodeTest, error) {
	t := p.cur()
	if t == nil {
		return NodeTest{}, ErrSyntax.New("expected node test")
	}
	switch t.Kind {
	case token.KindStar:
		p.advance()
		return NodeTest{Wildcard: true}, nil
	case token.KindNCNameStar:
		p.advance()
		return NodeTest{ModuleWild: true, Module: t.Module}, nil
	case token.KindIdentifier:
		p.advance()
		return NodeTest{Name: t.Value}, nil
	case token.KindPrefixedString, token.KindModPrefixedString:
		p.advance()
		return NodeTest{Module: t.Module, Name: t.Value}, nil
	}
	return NodeTest{}, ErrSyntax.New("expected node test, got " + t.Value)
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.cur()
	if t == nil {
		return nil, ErrSyntax.New("unexpected end of expression")
	}

	switch t.Kind {
	case token.KindLParen:
		p.advance()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.curIs(token.KindRParen) {
			return nil, ErrSyntax.New("expected ')'")
		}
		p.advance()
		return e, nil

	case token.KindVarBind:
		p.advance()
		return &VarRef{Name: t.Value}, nil

	case token.KindQVarBind:
		p.advance()
		return &VarRef{Prefix: t.Module, Name: t.Value}, nil

	case token.KindSingleQuoted, token.KindDoubleQuoted:
		p.advance()
		return &Literal{Str: t.Value}, nil

	case token.KindDecimalNumber, token.KindRealNumber:
		p.advance()
		n, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return nil, ErrSyntax.New("invalid number literal " + t.Value)
		}
		return &Literal{IsNumber: true, Num: n}, nil

	case token.KindIdentifier, token.KindPrefixedString, token.KindModPrefixedString:
		// must be a function call (bare name tests are handled upstream).
		name := t.Value
		if t.Module != "" {
			name = t.Module + ":" + name
		}
		p.advance()
		if !p.curIs(token.KindLParen) {
			return nil, ErrSyntax.New("expected '(' after function name " + name)
		}
		p.advance()
		var args []Expr
		if !p.curIs(token.KindRParen) {
			for {
				arg, err := p.parseOr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.curIs(token.KindComma) {
					p.advance()
					continue
				}
				break
			}
		}
		if !p.curIs(token.KindRParen) {
			return nil, ErrSyntax.New("expected ')'")
		}
		p.advance()
		entry, ok := functionTable[name]
		if !ok {
			return nil, ErrUnknownFunction.New(name)
		}
		if err := checkArgCount(&entry, len(args)); err != nil {
			return nil, err
		}
		return &FuncCall{Name: name, Args: args}, nil
	}

	return nil, ErrSyntax.New("unexpected token " + t.Value)
}

func (p *parser) curIs(k token.Kind) bool {
	t := p.cur()
	return t != nil && t.Kind == k
}

func (p *parser) isKeyword(kw string) bool {
	t := p.cur()
	return t != nil && t.Kind == token.KindIdentifier && t.Value == kw
}

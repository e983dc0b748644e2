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
	"github.com/nacmcore/core/internal/token"
)

// SourceKind tags which dialect restriction a PCB's expression is subject
// to (§3, §6.3).
type SourceKind int

const (
	SourceLeafref SourceKind = iota
	SourceMustWhen
	SourceInstanceID
	SourceSchemaInstanceID
	SourceSelect
)

func (s SourceKind) String() string {
	switch s {
	case SourceLeafref:
		return "leafref"
	case SourceMustWhen:
		return "must/when"
	case SourceInstanceID:
		return "instance-identifier"
	case SourceSchemaInstanceID:
		return "schema-instance-identifier"
	case SourceSelect:
		return "select"
	}
	return "unknown"
}

// DocumentKind tags what kind of document the PCB is evaluated against.
type DocumentKind int

const (
	DocConfig DocumentKind = iota
	DocRPC
	DocRPCReply
	DocNotification
)

// TraversalMode selects which schema binding is currently active.
type TraversalMode int

const (
	ModeTarget TraversalMode = iota
	ModeAlt
	ModeKey
)

// VarBinding is one ($name -> Result) entry in the variable-binding queue;
// a PCB uses either a binding queue or a GetVar callback, never both (§3).
type VarBinding struct {
	Prefix string
	Name   string
	Value  *Result
}

// resultCacheCap / resNodeCacheCap bound the PCB's result/resnode caches
// (§3): overflow triggers real allocation rather than cache growth.
const (
	resultCacheCap  = 16
	resNodeCacheCap = 64
)

// PCB is the XPath parser control block: the compiled-expression handle
// that owns one expression through its parse/validate/evaluate lifecycle
// (§3, §4.3).
type PCB struct {
	Source     SourceKind
	Expression string
	Chain      *token.Chain
	compiled   Expr

	// schema bindings
	TargetObject *SchemaNode
	AltObject    *SchemaNode
	KeyObject    *SchemaNode
	Mode         TraversalMode

	// runtime context
	ContextNode     ValueNode
	DocumentRoot    ValueNode
	DocumentKind    DocumentKind
	OriginalContext ValueNode // current()'s fixed answer

	// flags
	Dynamic                    bool
	ShortCircuit               bool
	ConfigOnly                 bool
	MissingIsError             bool
	InstanceIDRestriction      bool
	SchemaInstanceIDRestriction bool

	// variable resolution: exactly one of these is used.
	VarBindings []VarBinding
	GetVar      func(prefix, name string) (*Result, error)

	// external collaborators
	Modules  ModuleRegistry
	Features FeatureRegistry

	// phase status gate (§3, §7): a later phase refuses to run if an
	// earlier one failed.
	ParseStatus    error
	ValidateStatus error
	ValueStatus    error

	resultCache  *lruResultCache
	resNodeCache *lruResNodeCache
}

// NewPCB creates an unparsed PCB for expr under the given source
// restriction.
func NewPCB(source SourceKind, expr string) *PCB {
	return &PCB{
		Source:       source,
		Expression:   expr,
		resultCache:  newLRUResultCache(resultCacheCap),
		resNodeCache: newLRUResNodeCache(resNodeCacheCap),
	}
}

// Parse tokenizes the expression (source kind XPATH) and compiles it into
// an Expr tree, applying the dialect restriction named by p.Source (§4.3
// phase 1). It sets ParseStatus and short-circuits later phases on failure.
func (p *PCB) Parse() error {
	chain, err := token.Lex(p.Expression, token.SourceXPath, "")
	if err != nil {
		p.ParseStatus = err
		return err
	}
	p.Chain = chain

	expr, err := parseExpr(chain)
	if err != nil {
		p.ParseStatus = err
		return err
	}

	if err := checkRestriction(p.Source, expr); err != nil {
		p.ParseStatus = err
		return err
	}

	p.compiled = expr
	p.ParseStatus = nil
	return nil
}

// checkRestriction enforces §6.3: instance-identifier and
// schema-instance-identifier sources are restricted to abbreviated
// location paths with predicates of the form [key-name=literal].
func checkRestriction(source SourceKind, e Expr) error {
	if source != SourceInstanceID && source != SourceSchemaInstanceID {
		return nil
	}
	lp, ok := e.(*LocationPath)
	if !ok {
		return ErrUnsupportedRestriction.New(source.String())
	}
	for _, st := range lp.Steps {
		for _, pred := range st.Predicates {
			bin, ok := pred.(*Binary)
			if !ok || bin.Op != OpEq {
				return ErrUnsupportedRestriction.New(source.String())
			}
			if _, ok := bin.Right.(*Literal); !ok {
				return ErrUnsupportedRestriction.New(source.String())
			}
			if !isKeyNameExpr(bin.Left) {
				return ErrUnsupportedRestriction.New(source.String())
			}
		}
	}
	return nil
}

// isKeyNameExpr reports whether e is a bare "key-name" relative location
// step, the only left-hand form §6.3 permits in an
// instance-identifier/schema-instance-identifier predicate.
func isKeyNameExpr(e Expr) bool {
	lp, ok := e.(*LocationPath)
	if !ok || lp.Absolute || len(lp.Steps) != 1 {
		return false
	}
	st := lp.Steps[0]
	return st.Axis == AxisChild && !st.Test.Wildcard && !st.Test.ModuleWild && len(st.Predicates) == 0
}

// Validate re-walks the compiled tree with schema access to confirm each
// path step identifies a schema node (§4.3 phase 2). missingIsWarning, when
// true, downgrades an unresolved step to a warning instead of an error.
func (p *PCB) Validate(root *SchemaNode, missingIsWarning bool) error {
	if p.ParseStatus != nil {
		return ErrPhaseNotReady.New("validate")
	}
	err := validateTree(p.compiled, root, p.TargetObject, missingIsWarning)
	p.ValidateStatus = err
	return err
}

// Evaluate runs the compiled+validated expression over a live document
// (§4.3 phase 3). ctx is the current context node.
func (p *PCB) Evaluate(ctx ValueNode) (*Result, error) {
	if p.ParseStatus != nil || p.ValidateStatus != nil {
		return nil, ErrPhaseNotReady.New("evaluate")
	}
	if p.OriginalContext == nil {
		p.OriginalContext = ctx
	}
	if p.DocumentRoot == nil {
		p.DocumentRoot = ctx
	}

	if cached, ok := p.resultCache.get(p, ctx); ok {
		return cached, nil
	}

	ev := &evaluator{pcb: p, contextNode: ctx, contextPos: 1, contextLast: 1}
	res, err := ev.eval(p.compiled)
	if err != nil {
		p.ValueStatus = err
		return nil, err
	}
	p.resultCache.put(p, ctx, res)
	return res, nil
}

// Clone copies compiled state and schema bindings but resets cached
// results and the evaluation context, per §3/§4.3.
func (p *PCB) Clone() *PCB {
	clone := *p
	clone.ContextNode = nil
	clone.OriginalContext = nil
	clone.ValueStatus = nil
	clone.resultCache = newLRUResultCache(resultCacheCap)
	clone.resNodeCache = newLRUResNodeCache(resNodeCacheCap)
	return &clone
}

package build

import (
	"strings"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/lex"
	"github.com/pamela-lang/pamela/internal/pamela/sexpr"
)

// bodyDispatch maps each recognized combinator head symbol to the builder
// function handling its particular shape. Any symbol-headed list not in
// this table is treated as a plant-function call.
var bodyDispatch map[string]func(*Builder, *sexpr.Tree) (*ir.Stmt, *ir.CompileError)

// bodyDispatch maps each recognized combinator head symbol to the builder
// function handling its particular shape. Any symbol-headed list not in
// this table is treated as a plant-function call.
//
// Populated from init() rather than a var initializer: buildSequence (and
// the other builder methods referenced here) transitively call
// buildBodyForm, which reads bodyDispatch, so a direct initializer creates
// an initialization cycle.
func init() {
	bodyDispatch = map[string]func(*Builder, *sexpr.Tree) (*ir.Stmt, *ir.CompileError){
		"sequence":        (*Builder).buildSequence,
		"parallel":        (*Builder).buildParallel,
		"choose":          (*Builder).buildChoose,
		"choose-whenever": (*Builder).buildChooseWhenever,
		"choice":          (*Builder).buildChoice,
		"slack-sequence":  (*Builder).buildSlackSequence,
		"slack-parallel":  (*Builder).buildSlackParallel,
		"soft-sequence":   (*Builder).buildSoftSequence,
		"soft-parallel":   (*Builder).buildSoftParallel,
		"optional":        (*Builder).buildOptional,
		"delay":           (*Builder).buildDelay,
		"ask":             func(b *Builder, t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) { return b.buildConditionOnly(t, ir.StmtAsk, "ask") },
		"tell":            func(b *Builder, t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) { return b.buildConditionOnly(t, ir.StmtTell, "tell") },
		"assert":          func(b *Builder, t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) { return b.buildConditionOnly(t, ir.StmtAssert, "assert") },
		"maintain":        func(b *Builder, t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) { return b.buildConditionOnly(t, ir.StmtMaintain, "maintain") },
		"unless":          func(b *Builder, t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) { return b.buildConditionAndBody(t, ir.StmtUnless, "unless") },
		"when":            func(b *Builder, t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) { return b.buildConditionAndBody(t, ir.StmtWhen, "when") },
		"whenever":        func(b *Builder, t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) { return b.buildConditionAndBody(t, ir.StmtWhenever, "whenever") },
		"try":             (*Builder).buildTry,
		"dotimes":         (*Builder).buildDotimes,
		"between":         (*Builder).buildBetween,
		"between-starts":  (*Builder).buildBetween,
		"between-ends":    (*Builder).buildBetween,
	}
}

func (b *Builder) buildBodyForm(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	if t.Kind != sexpr.KindList {
		return nil, ir.Structuralf("expected a method body form")
	}
	head := t.Head()
	if head == "" {
		return nil, ir.Structuralf("method body form must begin with a symbol")
	}
	if fn, ok := bodyDispatch[head]; ok {
		return fn(b, t)
	}
	return b.buildPlantFn(t)
}

func (b *Builder) buildEachBodyForm(forms []*sexpr.Tree) ([]*ir.Stmt, *ir.CompileError) {
	var out []*ir.Stmt
	for _, f := range forms {
		s, err := b.buildBodyForm(f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// scanTrailingOptions splits a flat children list into its keyword-tagged
// option pairs and its remaining body/positional forms, in the order
// encountered: each combinator absorbs its options into the node and
// treats whatever remains as its body.
func scanTrailingOptions(children []*sexpr.Tree) (map[string]*sexpr.Tree, []*sexpr.Tree, *ir.CompileError) {
	opts := map[string]*sexpr.Tree{}
	var rest []*sexpr.Tree
	i := 0
	for i < len(children) {
		c := children[i]
		if c.IsKeyword("") {
			key := c.Keyword()
			if i+1 >= len(children) {
				return nil, nil, ir.Structuralf("option %q missing a value", ":"+key)
			}
			opts[key] = children[i+1]
			i += 2
			continue
		}
		rest = append(rest, c)
		i++
	}
	return opts, rest, nil
}

// decorate applies the recognized body-form option keys onto stmt.
func (b *Builder) decorate(stmt *ir.Stmt, opts map[string]*sexpr.Tree) *ir.CompileError {
	for key, val := range opts {
		switch key {
		case "bounds":
			bounds, err := b.buildBounds(val)
			if err != nil {
				return err
			}
			stmt.TemporalConstraints = []ir.Bounds{bounds}
		case "label":
			s, err := decodeStringLiteral(val)
			if err != nil {
				return err
			}
			stmt.Label = s
		case "cost<=":
			n, err := decodeNumber(val)
			if err != nil {
				return err
			}
			stmt.CostLE = &n
		case "reward>=":
			n, err := decodeNumber(val)
			if err != nil {
				return err
			}
			stmt.RewardGE = &n
		case "probability":
			n, err := decodeNumber(val)
			if err != nil {
				return err
			}
			stmt.Probability = &n
		case "controllable":
			v, err := decodeBool(val)
			if err != nil {
				return err
			}
			stmt.Controllable = &v
		case "min":
			n, err := decodeInt(val)
			if err != nil {
				return err
			}
			i := int(n)
			stmt.Min = &i
		case "max":
			n, err := decodeInt(val)
			if err != nil {
				return err
			}
			i := int(n)
			stmt.Max = &i
		case "exactly":
			n, err := decodeInt(val)
			if err != nil {
				return err
			}
			i := int(n)
			stmt.Exactly = &i
		case "guard":
			cond, err := b.buildCondition(val)
			if err != nil {
				return err
			}
			stmt.Guard = cond
		case "enter":
			cond, err := b.buildCondition(val)
			if err != nil {
				return err
			}
			stmt.Enter = cond
		case "leave":
			cond, err := b.buildCondition(val)
			if err != nil {
				return err
			}
			stmt.Leave = cond
		case "condition":
			cond, err := b.buildCondition(val)
			if err != nil {
				return err
			}
			stmt.Condition = cond
		default:
			return ir.Structuralf("unrecognized body option %q", ":"+key)
		}
	}
	return nil
}

func (b *Builder) buildSequence(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	opts, rest, err := scanTrailingOptions(t.Rest())
	if err != nil {
		return nil, err
	}
	body, err := b.buildEachBodyForm(rest)
	if err != nil {
		return nil, err
	}
	stmt := &ir.Stmt{Kind: ir.StmtSequence, Body: body}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (b *Builder) buildParallel(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	opts, rest, err := scanTrailingOptions(t.Rest())
	if err != nil {
		return nil, err
	}
	body, err := b.buildEachBodyForm(rest)
	if err != nil {
		return nil, err
	}
	stmt := &ir.Stmt{Kind: ir.StmtParallel, Body: body}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (b *Builder) buildChoice(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	opts, rest, err := scanTrailingOptions(t.Rest())
	if err != nil {
		return nil, err
	}
	body, err := b.buildEachBodyForm(rest)
	if err != nil {
		return nil, err
	}
	stmt := &ir.Stmt{Kind: ir.StmtChoice, Body: body}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (b *Builder) buildChoose(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	opts, rest, err := scanTrailingOptions(t.Rest())
	if err != nil {
		return nil, err
	}
	var choices []*ir.Stmt
	for _, c := range rest {
		if c.Head() != "choice" {
			return nil, ir.Structuralf("choose children must be (choice ...) forms")
		}
		s, err := b.buildChoice(c)
		if err != nil {
			return nil, err
		}
		choices = append(choices, s)
	}
	stmt := &ir.Stmt{Kind: ir.StmtChoose, Body: choices}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (b *Builder) buildChooseWhenever(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	children := t.Rest()
	if len(children) == 0 {
		return nil, ir.Structuralf("choose-whenever requires a condition")
	}
	cond, next, err := b.takeCondition(children, 0)
	if err != nil {
		return nil, err
	}
	opts, rest, err := scanTrailingOptions(children[next:])
	if err != nil {
		return nil, err
	}
	var choices []*ir.Stmt
	for _, c := range rest {
		if c.Head() != "choice" {
			return nil, ir.Structuralf("choose-whenever children must be (choice ...) forms")
		}
		s, err := b.buildChoice(c)
		if err != nil {
			return nil, err
		}
		choices = append(choices, s)
	}
	stmt := &ir.Stmt{Kind: ir.StmtChooseWhenever, Condition: cond, Body: choices}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (b *Builder) buildDelay(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	opts, _, err := scanTrailingOptions(t.Rest())
	if err != nil {
		return nil, err
	}
	stmt := &ir.Stmt{Kind: ir.StmtDelay, TemporalConstraints: []ir.Bounds{ir.DefaultBounds()}}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (b *Builder) buildConditionOnly(t *sexpr.Tree, kind ir.StmtKind, name string) (*ir.Stmt, *ir.CompileError) {
	children := t.Rest()
	if len(children) == 0 {
		return nil, ir.Structuralf("%s requires a condition", name)
	}
	cond, next, err := b.takeCondition(children, 0)
	if err != nil {
		return nil, err
	}
	opts, _, err := scanTrailingOptions(children[next:])
	if err != nil {
		return nil, err
	}
	stmt := &ir.Stmt{Kind: kind, Condition: cond}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (b *Builder) buildConditionAndBody(t *sexpr.Tree, kind ir.StmtKind, name string) (*ir.Stmt, *ir.CompileError) {
	children := t.Rest()
	if len(children) == 0 {
		return nil, ir.Structuralf("%s requires a condition", name)
	}
	cond, next, err := b.takeCondition(children, 0)
	if err != nil {
		return nil, err
	}
	opts, rest, err := scanTrailingOptions(children[next:])
	if err != nil {
		return nil, err
	}
	body, err := b.buildEachBodyForm(rest)
	if err != nil {
		return nil, err
	}
	stmt := &ir.Stmt{Kind: kind, Condition: cond, Body: body}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

// buildTry builds try/catch: the :CATCH marker switches accumulation from
// Body to Catch.
func (b *Builder) buildTry(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	children := t.Rest()
	stmt := &ir.Stmt{Kind: ir.StmtTry}
	opts := map[string]*sexpr.Tree{}
	inCatch := false
	i := 0
	for i < len(children) {
		c := children[i]
		if c.IsKeyword("CATCH") {
			inCatch = true
			i++
			continue
		}
		if c.IsKeyword("") {
			key := c.Keyword()
			if i+1 >= len(children) {
				return nil, ir.Structuralf("try option %q missing a value", ":"+key)
			}
			opts[key] = children[i+1]
			i += 2
			continue
		}
		s, err := b.buildBodyForm(c)
		if err != nil {
			return nil, err
		}
		if inCatch {
			stmt.Catch = append(stmt.Catch, s)
		} else {
			stmt.Body = append(stmt.Body, s)
		}
		i++
	}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

// buildSlackSequence, buildSlackParallel, buildSoftSequence,
// buildSoftParallel and buildOptional keep their own StmtKind rather than
// expanding inline: the macro expansion into delay/choose/choice nodes is a
// semantic rewrite (internal/pamela/validate), not a grammar-level one, so
// that a pretty-printer or a later pass can still recover the form the
// author wrote.
func (b *Builder) buildSlackFamily(t *sexpr.Tree, kind ir.StmtKind) (*ir.Stmt, *ir.CompileError) {
	opts, rest, err := scanTrailingOptions(t.Rest())
	if err != nil {
		return nil, err
	}
	items, err := b.buildEachBodyForm(rest)
	if err != nil {
		return nil, err
	}
	stmt := &ir.Stmt{Kind: kind, Body: items}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (b *Builder) buildSlackSequence(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	return b.buildSlackFamily(t, ir.StmtSlackSequence)
}

func (b *Builder) buildSlackParallel(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	return b.buildSlackFamily(t, ir.StmtSlackParallel)
}

func (b *Builder) buildOptional(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	return b.buildSlackFamily(t, ir.StmtOptional)
}

func (b *Builder) buildSoftSequence(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	return b.buildSlackFamily(t, ir.StmtSoftSequence)
}

func (b *Builder) buildSoftParallel(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	return b.buildSlackFamily(t, ir.StmtSoftParallel)
}

// buildDotimes desugars `(dotimes n f)` into a sequence of f repeated n
// times.
func (b *Builder) buildDotimes(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	children := t.Rest()
	if len(children) != 2 {
		return nil, ir.Structuralf("dotimes requires a literal count and one body form")
	}
	if children[0].Kind != sexpr.KindAtom || children[0].Token.Class != lex.ClassNumber {
		return nil, ir.Structuralf("dotimes requires a literal integer count")
	}
	n, err := decodeInt(children[0])
	if err != nil {
		return nil, err
	}
	f, ferr := b.buildBodyForm(children[1])
	if ferr != nil {
		return nil, ferr
	}
	seq := &ir.Stmt{Kind: ir.StmtSequence}
	for i := int64(0); i < n; i++ {
		seq.Body = append(seq.Body, f)
	}
	return seq, nil
}

func (b *Builder) buildBetween(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	var kind ir.StmtKind
	switch t.Head() {
	case "between":
		kind = ir.StmtBetween
	case "between-starts":
		kind = ir.StmtBetweenStarts
	case "between-ends":
		kind = ir.StmtBetweenEnds
	}
	children := t.Rest()
	if len(children) < 2 || !children[0].IsSymbol("") || !children[1].IsSymbol("") {
		return nil, ir.Structuralf("%s requires two method-name arguments", t.Head())
	}
	from := ir.Symbol(children[0].Symbol())
	to := ir.Symbol(children[1].Symbol())
	opts, _, err := scanTrailingOptions(children[2:])
	if err != nil {
		return nil, err
	}
	stmt := &ir.Stmt{Kind: kind, From: from, To: to}
	if err := b.decorate(stmt, opts); err != nil {
		return nil, err
	}
	return stmt, nil
}

// buildPlantFn builds the grammar's pre-validation plant-function shape. A
// call is headed by a single symbol: bare, `(m arg...)`, calls a method
// of the enclosing pclass; dotted, `(pwr.on arg...)`, calls through the
// plant named before the dot. Both produce a plant-fn-symbol
// node for the validator to resolve and arity-check.
func (b *Builder) buildPlantFn(t *sexpr.Tree) (*ir.Stmt, *ir.CompileError) {
	head := t.Head()
	name := string(ir.This)
	method := head
	if dot := strings.Index(head, "."); dot >= 0 {
		name = head[:dot]
		method = head[dot+1:]
		if name == "" || method == "" || strings.Contains(method, ".") {
			return nil, ir.Structuralf("invalid plant function name %q", head)
		}
	}
	args, err := b.buildConditionArgs(t.Rest())
	if err != nil {
		return nil, err
	}
	return &ir.Stmt{Kind: ir.StmtPlantFnSymbol, Name: ir.Symbol(name), Method: ir.Symbol(method), CallArgs: args}, nil
}

// buildBounds builds `[lower upper]`, where upper may be the keyword
// :infinity.
func (b *Builder) buildBounds(t *sexpr.Tree) (ir.Bounds, *ir.CompileError) {
	if t.Kind != sexpr.KindVector || len(t.Children) != 2 {
		return ir.Bounds{}, ir.Structuralf("bounds must be a [lower upper] vector")
	}
	lo, err := decodeInt(t.Children[0])
	if err != nil {
		return ir.Bounds{}, err
	}
	var hi int64
	if t.Children[1].IsKeyword("infinity") || t.Children[1].IsSymbol("infinity") {
		hi = ir.InfiniteUpper
	} else {
		hi, err = decodeInt(t.Children[1])
		if err != nil {
			return ir.Bounds{}, err
		}
	}
	return ir.Bounds{Lower: lo, Upper: hi}, nil
}

package validate

import "github.com/pamela-lang/pamela/internal/pamela/ir"

// The slack/soft/optional macro rewrites: internal/pamela/build keeps
// these forms as their own Stmt kinds rather than expanding them inline
// (see that package's buildSlackFamily doc comment), so the mechanical
// macro expansion happens here, once each form's own body has already
// been resolved by resolveStmt.

func defaultDelay() *ir.Stmt {
	return &ir.Stmt{Kind: ir.StmtDelay, TemporalConstraints: []ir.Bounds{ir.DefaultBounds()}}
}

func zeroDelay() *ir.Stmt {
	return &ir.Stmt{Kind: ir.StmtDelay, TemporalConstraints: []ir.Bounds{ir.ZeroBounds()}}
}

// rewriteSlackSequence: slack-sequence(body) -> sequence([default-delay,
// body[0], default-delay, body[1], ..., default-delay]).
func rewriteSlackSequence(body []*ir.Stmt) *ir.Stmt {
	items := make([]*ir.Stmt, 0, 2*len(body)+1)
	items = append(items, defaultDelay())
	for _, b := range body {
		items = append(items, b, defaultDelay())
	}
	return &ir.Stmt{Kind: ir.StmtSequence, Body: items}
}

// rewriteSlackParallel: slack-parallel(body) -> parallel([
// slack-sequence([x]) for x in body]).
func rewriteSlackParallel(body []*ir.Stmt) *ir.Stmt {
	items := make([]*ir.Stmt, len(body))
	for i, b := range body {
		items[i] = rewriteSlackSequence([]*ir.Stmt{b})
	}
	return &ir.Stmt{Kind: ir.StmtParallel, Body: items}
}

// rewriteOptional: optional(body) -> choose([choice([zero-delay]),
// choice(body)]).
func rewriteOptional(body []*ir.Stmt) *ir.Stmt {
	skip := &ir.Stmt{Kind: ir.StmtChoice, Body: []*ir.Stmt{zeroDelay()}}
	take := &ir.Stmt{Kind: ir.StmtChoice, Body: body}
	return &ir.Stmt{Kind: ir.StmtChoose, Body: []*ir.Stmt{skip, take}}
}

// rewriteSoftSequence: soft-sequence(body) -> sequence([optional([x]) for
// x in body]).
func rewriteSoftSequence(body []*ir.Stmt) *ir.Stmt {
	items := make([]*ir.Stmt, len(body))
	for i, b := range body {
		items[i] = rewriteOptional([]*ir.Stmt{b})
	}
	return &ir.Stmt{Kind: ir.StmtSequence, Body: items}
}

// rewriteSoftParallel: soft-parallel(body) -> parallel([optional([x]) for
// x in body]).
func rewriteSoftParallel(body []*ir.Stmt) *ir.Stmt {
	items := make([]*ir.Stmt, len(body))
	for i, b := range body {
		items[i] = rewriteOptional([]*ir.Stmt{b})
	}
	return &ir.Stmt{Kind: ir.StmtParallel, Body: items}
}

// copyDecorations re-attaches the original node's option payload to the
// rewritten root, so the rewrite preserves exactly the options the
// author wrote (bounds/label/cost/reward/probability/
// controllable). Condition/guard/enter/leave/min/max/exactly do not apply
// to slack/soft/optional forms and are never set on them.
func copyDecorations(dst, src *ir.Stmt) {
	dst.TemporalConstraints = src.TemporalConstraints
	dst.Label = src.Label
	dst.CostLE = src.CostLE
	dst.RewardGE = src.RewardGE
	dst.Probability = src.Probability
	dst.Controllable = src.Controllable
}

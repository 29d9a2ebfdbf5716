package validate

import "github.com/pamela-lang/pamela/internal/pamela/ir"

// resolveStmtList validates each statement of list in turn, threading the
// (possibly rewritten, see resolveStmt) replacement back into a new
// slice, since the slack/soft/optional macro expansion replaces a node's
// Kind entirely rather than mutating it in place.
func (v *validator) resolveStmtList(pc *ir.Pclass, margs map[ir.Symbol]bool, methodName ir.Symbol, list []*ir.Stmt) ([]*ir.Stmt, *ir.CompileError) {
	if list == nil {
		return nil, nil
	}
	out := make([]*ir.Stmt, len(list))
	for i, s := range list {
		r, err := v.resolveStmt(pc, margs, methodName, s)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// resolveStmt validates one body node, including the slack/soft/optional
// macro expansion: it first resolves every condition-bearing field and
// recurses into Body/Catch, then dispatches on Kind for the
// plant-fn-symbol arity check and the macro rewrites. A statement with no
// special handling (sequence, parallel, choice, ask/tell/..., already-
// rewritten plant-fn/plant-fn-field, ...) passes through once its
// children have been resolved.
func (v *validator) resolveStmt(pc *ir.Pclass, margs map[ir.Symbol]bool, methodName ir.Symbol, stmt *ir.Stmt) (*ir.Stmt, *ir.CompileError) {
	if stmt == nil {
		return nil, nil
	}

	if stmt.Condition != nil {
		c, err := v.resolveCondition(pc, margs, stmt.Condition)
		if err != nil {
			return nil, err
		}
		stmt.Condition = c
	}
	if stmt.Guard != nil {
		c, err := v.resolveCondition(pc, margs, stmt.Guard)
		if err != nil {
			return nil, err
		}
		stmt.Guard = c
	}
	if stmt.Enter != nil {
		c, err := v.resolveCondition(pc, margs, stmt.Enter)
		if err != nil {
			return nil, err
		}
		stmt.Enter = c
	}
	if stmt.Leave != nil {
		c, err := v.resolveCondition(pc, margs, stmt.Leave)
		if err != nil {
			return nil, err
		}
		stmt.Leave = c
	}
	for i, a := range stmt.CallArgs {
		r, err := v.resolveCondition(pc, margs, a)
		if err != nil {
			return nil, err
		}
		stmt.CallArgs[i] = r
	}

	body, err := v.resolveStmtList(pc, margs, methodName, stmt.Body)
	if err != nil {
		return nil, err
	}
	stmt.Body = body

	catch, err := v.resolveStmtList(pc, margs, methodName, stmt.Catch)
	if err != nil {
		return nil, err
	}
	stmt.Catch = catch

	switch stmt.Kind {
	case ir.StmtPlantFnSymbol:
		return v.resolvePlantFn(pc, margs, methodName, stmt)
	case ir.StmtSlackSequence:
		rewritten := rewriteSlackSequence(stmt.Body)
		copyDecorations(rewritten, stmt)
		return rewritten, nil
	case ir.StmtSlackParallel:
		rewritten := rewriteSlackParallel(stmt.Body)
		copyDecorations(rewritten, stmt)
		return rewritten, nil
	case ir.StmtOptional:
		rewritten := rewriteOptional(stmt.Body)
		copyDecorations(rewritten, stmt)
		return rewritten, nil
	case ir.StmtSoftSequence:
		rewritten := rewriteSoftSequence(stmt.Body)
		copyDecorations(rewritten, stmt)
		return rewritten, nil
	case ir.StmtSoftParallel:
		rewritten := rewriteSoftParallel(stmt.Body)
		copyDecorations(rewritten, stmt)
		return rewritten, nil
	default:
		return stmt, nil
	}
}

// resolvePlantFn performs arity-checked call resolution for a
// :plant-fn-symbol node.
func (v *validator) resolvePlantFn(pc *ir.Pclass, margs map[ir.Symbol]bool, methodName ir.Symbol, stmt *ir.Stmt) (*ir.Stmt, *ir.CompileError) {
	name := stmt.Name
	n := len(stmt.CallArgs)

	if name == ir.This {
		if _, err := resolveArity(pc, stmt.Method, n); err != nil {
			return nil, err
		}
		stmt.Kind = ir.StmtPlantFn
		return stmt, nil
	}

	if margs[name] || containsSymbol(pc.Args, name) {
		// Method-arg or pclass-arg symbol: the call target is only known
		// at root-task resolution time, out of this core's scope.
		return stmt, nil
	}

	field, ok := pc.Fields[name]
	if !ok {
		return nil, ir.Semanticf("plant name %s used in method %s is not defined in the pclass %s", name, methodName, pc.Name)
	}
	if field.Initial.Kind != ir.ExprPclassCtor {
		// Indirectly-initialized field (e.g. an arg-reference): accept,
		// defer the arity check to a later pass.
		return stmt, nil
	}

	target, ok := v.prog.Pclasses[field.Initial.Ctor.Pclass]
	if !ok {
		return nil, ir.Semanticf("field %s of pclass %s initializes to undeclared pclass %s", name, pc.Name, field.Initial.Ctor.Pclass)
	}
	if _, err := resolveArity(target, stmt.Method, n); err != nil {
		return nil, err
	}

	stmt.Kind = ir.StmtPlantFnField
	stmt.Field = name
	stmt.Name = ""
	return stmt, nil
}

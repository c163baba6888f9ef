package symbolic

// Eval evaluates the expression tree rooted at n given the argument vector
// args (indexed as assigned by Builder.Var). This is the "lower to a
// closure over a fixed argument vector" pattern:
// callers typically wrap it as `func(args []float64) float64 { return
// symbolic.Eval(root, args) }`.
func Eval(n *Node, args []float64) float64 {
	switch n.Kind {
	case KindConst:
		return n.Value
	case KindVar:
		return args[n.Index]
	case KindAdd:
		return Eval(n.L, args) + Eval(n.R, args)
	case KindSub:
		return Eval(n.L, args) - Eval(n.R, args)
	case KindMul:
		return Eval(n.L, args) * Eval(n.R, args)
	case KindDiv:
		return Eval(n.L, args) / Eval(n.R, args)
	case KindNeg:
		return -Eval(n.L, args)
	default:
		panic("symbolic: unknown node kind")
	}
}

package symbolic

// Diff returns d(n)/d(wrtIndex), the analytic partial derivative of n with
// respect to the variable occupying position wrtIndex in the argument
// vector. Derivative subtrees are built through b, so structurally
// identical derivative terms are interned just like the originals
// rather than rebuilt from scratch.
func Diff(b *Builder, n *Node, wrtIndex int) *Node {
	switch n.Kind {
	case KindConst:
		return b.Const(0)
	case KindVar:
		if n.Index == wrtIndex {
			return b.Const(1)
		}
		return b.Const(0)
	case KindAdd:
		return b.Add(Diff(b, n.L, wrtIndex), Diff(b, n.R, wrtIndex))
	case KindSub:
		return b.Sub(Diff(b, n.L, wrtIndex), Diff(b, n.R, wrtIndex))
	case KindNeg:
		return b.Neg(Diff(b, n.L, wrtIndex))
	case KindMul:
		// product rule: (l*r)' = l'*r + l*r'
		return b.Add(b.Mul(Diff(b, n.L, wrtIndex), n.R), b.Mul(n.L, Diff(b, n.R, wrtIndex)))
	case KindDiv:
		// quotient rule: (l/r)' = (l'*r - l*r') / r^2
		num := b.Sub(b.Mul(Diff(b, n.L, wrtIndex), n.R), b.Mul(n.L, Diff(b, n.R, wrtIndex)))
		den := b.Mul(n.R, n.R)
		return b.Div(num, den)
	default:
		panic("symbolic: unknown node kind")
	}
}

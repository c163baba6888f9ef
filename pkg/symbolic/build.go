package symbolic

import (
	"strconv"
)

// Const returns (and interns) a constant node.
func (b *Builder) Const(v float64) *Node {
	n := &Node{Kind: KindConst, Value: v, sig: "c:" + strconv.FormatFloat(v, 'g', -1, 64)}
	return b.intern(n)
}

// Var returns (and interns) a variable reference node. index is the
// position this variable occupies in the evaluator's argument vector.
func (b *Builder) Var(name string, index int) *Node {
	n := &Node{Kind: KindVar, Name: name, Index: index, sig: "v:" + name}
	return b.intern(n)
}

// Add returns (and interns) l + r.
func (b *Builder) Add(l, r *Node) *Node {
	if l.Kind == KindConst && l.Value == 0 {
		return r
	}
	if r.Kind == KindConst && r.Value == 0 {
		return l
	}
	if l.Kind == KindConst && r.Kind == KindConst {
		return b.Const(l.Value + r.Value)
	}
	n := &Node{Kind: KindAdd, L: l, R: r, sig: "+(" + l.sig + "," + r.sig + ")"}
	return b.intern(n)
}

// Sub returns (and interns) l - r.
func (b *Builder) Sub(l, r *Node) *Node {
	if r.Kind == KindConst && r.Value == 0 {
		return l
	}
	if l.Kind == KindConst && r.Kind == KindConst {
		return b.Const(l.Value - r.Value)
	}
	n := &Node{Kind: KindSub, L: l, R: r, sig: "-(" + l.sig + "," + r.sig + ")"}
	return b.intern(n)
}

// Mul returns (and interns) l * r.
func (b *Builder) Mul(l, r *Node) *Node {
	if (l.Kind == KindConst && l.Value == 0) || (r.Kind == KindConst && r.Value == 0) {
		return b.Const(0)
	}
	if l.Kind == KindConst && l.Value == 1 {
		return r
	}
	if r.Kind == KindConst && r.Value == 1 {
		return l
	}
	if l.Kind == KindConst && r.Kind == KindConst {
		return b.Const(l.Value * r.Value)
	}
	n := &Node{Kind: KindMul, L: l, R: r, sig: "*(" + l.sig + "," + r.sig + ")"}
	return b.intern(n)
}

// Div returns (and interns) l / r.
func (b *Builder) Div(l, r *Node) *Node {
	if l.Kind == KindConst && l.Value == 0 {
		return b.Const(0)
	}
	if r.Kind == KindConst && r.Value == 1 {
		return l
	}
	if l.Kind == KindConst && r.Kind == KindConst {
		return b.Const(l.Value / r.Value)
	}
	n := &Node{Kind: KindDiv, L: l, R: r, sig: "/(" + l.sig + "," + r.sig + ")"}
	return b.intern(n)
}

// Neg returns (and interns) -l.
func (b *Builder) Neg(l *Node) *Node {
	if l.Kind == KindConst {
		return b.Const(-l.Value)
	}
	if l.Kind == KindNeg {
		return l.L
	}
	n := &Node{Kind: KindNeg, L: l, sig: "-(" + l.sig + ")"}
	return b.intern(n)
}

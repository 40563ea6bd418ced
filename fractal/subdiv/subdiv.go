// Package subdiv expands a root triangle into its Sierpinski descendants.
//
// Each non-terminal triangle has exactly three children built from its
// vertices and midpoints:
//
//	child0 = (A, midAB, midAC)
//	child1 = (C, midBC, midAC)
//	child2 = (B, midBC, midAB)
//
// Descendants are produced in pre-order, depth first: child0, the whole of
// child0's subtree, child1, its subtree, child2, its subtree. Renderers rely on
// this order.
package subdiv

import (
	"context"

	"gasket/fractal/geom"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxDepth is the generation at which subdivision stops.
const DefaultMaxDepth = 6

// Branching is the number of children of every non-terminal triangle.
const Branching = 3

// Children returns the three children of t, one generation deeper.
func Children(t geom.Triangle) [Branching]geom.Triangle {
	g := t.Generation() + 1
	return [Branching]geom.Triangle{
		geom.NewTriangle(t.A(), t.MidAB(), t.MidAC(), g),
		geom.NewTriangle(t.C(), t.MidBC(), t.MidAC(), g),
		geom.NewTriangle(t.B(), t.MidBC(), t.MidAB(), g),
	}
}

// Walk calls emit for every descendant of root, in pre-order.
//
// root itself is not emitted. Triangles at generation maxDepth or deeper have
// no children.
func Walk(root geom.Triangle, maxDepth int, emit func(geom.Triangle)) {
	if emit == nil || root.Generation() >= maxDepth {
		return
	}

	// Children are pushed in reverse so child0 is popped first; popping a
	// triangle emits it and then pushes its own children, which yields the
	// same sequence as the recursive emit-then-descend traversal.
	stack := make([]geom.Triangle, 0, Branching*(maxDepth-root.Generation())+1)
	pushChildren := func(t geom.Triangle) {
		kids := Children(t)
		for i := Branching - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}

	pushChildren(root)
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		emit(t)
		if t.Generation() < maxDepth {
			pushChildren(t)
		}
	}
}

// Collect returns root followed by all of its descendants in Walk order.
func Collect(root geom.Triangle, maxDepth int) []geom.Triangle {
	out := make([]geom.Triangle, 0, countBelow(root.Generation(), maxDepth))
	out = append(out, root)
	Walk(root, maxDepth, func(t geom.Triangle) {
		out = append(out, t)
	})
	return out
}

// CollectParallel returns the same sequence as Collect, expanding the
// subtrees under root's three children concurrently.
//
// It returns ctx.Err() if ctx is done before the expansion starts.
func CollectParallel(ctx context.Context, root geom.Triangle, maxDepth int) ([]geom.Triangle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root.Generation() >= maxDepth {
		return []geom.Triangle{root}, nil
	}

	var branches [Branching][]geom.Triangle
	g, ctx := errgroup.WithContext(ctx)
	for i, child := range Children(root) {
		i, child := i, child
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			branches[i] = Collect(child, maxDepth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]geom.Triangle, 0, countBelow(root.Generation(), maxDepth))
	out = append(out, root)
	for _, b := range branches {
		out = append(out, b...)
	}
	return out, nil
}

// Count is the number of triangles Collect returns for a root at generation
// 0: (3^(maxDepth+1) - 1) / 2. It is 0 for negative depths.
func Count(maxDepth int) int {
	if maxDepth < 0 {
		return 0
	}
	return countBelow(0, maxDepth)
}

func countBelow(gen, maxDepth int) int {
	if gen >= maxDepth {
		return 1
	}
	n := 1
	for i := gen; i < maxDepth; i++ {
		n *= Branching
	}
	return (n*Branching - 1) / 2
}

package graph

import "strings"

// EnumerateAll performs a breadth-first walk from root, yielding every
// reachable node exactly once.
func EnumerateAll(root *Node) []*Node {
	if root == nil {
		return nil
	}
	visited := map[*Node]bool{root: true}
	queue := []*Node{root}
	order := make([]*Node, 0, 16)

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, c := range n.Inner {
			if !visited[c] {
				visited[c] = true
				queue = append(queue, c)
			}
		}
	}
	return order
}

// EnumerateTopological yields every node reachable from root exactly
// once, in topological order (a node's parents within the reachable set
// are always yielded before the node itself). It uses Kahn's algorithm
// over the Outer edges restricted to the reachable set, so the root
// (which has no reachable parents) is always first.
func EnumerateTopological(root *Node) []*Node {
	if root == nil {
		return nil
	}

	reachable := EnumerateAll(root)
	inSet := make(map[*Node]bool, len(reachable))
	for _, n := range reachable {
		inSet[n] = true
	}

	indegree := make(map[*Node]int, len(reachable))
	for _, n := range reachable {
		count := 0
		for _, p := range n.Outer {
			if inSet[p] {
				count++
			}
		}
		indegree[n] = count
	}

	queue := make([]*Node, 0, len(reachable))
	for _, n := range reachable {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*Node, 0, len(reachable))
	seen := make(map[*Node]bool, len(reachable))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		order = append(order, n)

		for _, c := range n.Inner {
			if !inSet[c] {
				continue
			}
			indegree[c]--
			if indegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	return order
}

// GetPath renders the path from the graph's root to n, following the
// first Outer parent at each step: "root -> ... -> id version-or-range".
// Projects display only their id; everything else shows "id
// version-or-range" using the node's resolved item when present, falling
// back to its requested key otherwise.
func GetPath(n *Node) string {
	if n == nil {
		return ""
	}

	var chain []*Node
	for cur := n; cur != nil; {
		chain = append(chain, cur)
		if len(cur.Outer) == 0 {
			break
		}
		cur = cur.Outer[0]
	}

	// chain is leaf-to-root; reverse it.
	parts := make([]string, len(chain))
	for i, node := range chain {
		parts[len(chain)-1-i] = describeNode(node)
	}
	return strings.Join(parts, " -> ")
}

func describeNode(n *Node) string {
	if n.Item != nil {
		if n.Item.Kind == KindProject || n.Item.Kind == KindExternalProject {
			return n.Item.Name
		}
		return n.Item.String()
	}
	return n.Key.String()
}

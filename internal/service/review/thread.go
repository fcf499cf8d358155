package review

import (
	"context"
	"sort"

	"designsight/internal/domain/models"
)

// BuildCommentTree assembles a flat comment list into a forest.
//
// Comments are indexed by id first, then each one is attached to its
// parent's replies when the parent is in the set, otherwise it becomes a
// root. Input order is kept within every replies list, so callers pass
// comments sorted by createdAt ascending. The input records are shared
// with the nodes but never modified.
//
// A malformed parent chain that forms a cycle has no root to hang from;
// such comments are promoted to roots so every input appears exactly once.
func BuildCommentTree(comments []models.Comment) []*models.CommentNode {
	nodes := make(map[string]*models.CommentNode, len(comments))
	order := make([]*models.CommentNode, 0, len(comments))

	// First pass: one node per comment
	for i := range comments {
		c := &comments[i]
		if _, dup := nodes[c.ID]; dup {
			continue
		}
		node := &models.CommentNode{Comment: c, Replies: []*models.CommentNode{}}
		nodes[c.ID] = node
		order = append(order, node)
	}

	// Second pass: link replies to parents present in the set
	roots := make([]*models.CommentNode, 0)
	attached := make(map[string]bool, len(order))
	for _, node := range order {
		parentID := node.ParentCommentID
		if parentID == nil || *parentID == node.ID {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*parentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
		attached[node.ID] = true
	}

	// Third pass: nodes only reachable through a cycle are detached and
	// promoted, so the output is still a partition of the input.
	reachable := make(map[string]bool, len(order))
	var mark func(n *models.CommentNode)
	mark = func(n *models.CommentNode) {
		if reachable[n.ID] {
			return
		}
		reachable[n.ID] = true
		for _, r := range n.Replies {
			mark(r)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	if len(reachable) == len(order) {
		return roots
	}

	for _, node := range order {
		if reachable[node.ID] {
			continue
		}
		parent := nodes[*node.ParentCommentID]
		parent.Replies = removeNode(parent.Replies, node)
		roots = append(roots, node)
		mark(node)
	}

	return roots
}

func removeNode(list []*models.CommentNode, target *models.CommentNode) []*models.CommentNode {
	out := list[:0]
	for _, n := range list {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// ParentLookup resolves a parent comment by id. It returns nil, nil when
// the parent does not exist.
type ParentLookup func(ctx context.Context, parentID string) (*models.Comment, error)

// ThreadDepth counts parent hops from comment up to a comment with no
// parent. A root has depth 0 and a reply is one deeper than its parent.
// A hop to a missing parent still counts but ends the walk; a cycle ends it
// at the first revisited comment.
func ThreadDepth(ctx context.Context, comment *models.Comment, findParent ParentLookup) (int, error) {
	depth := 0
	seen := map[string]bool{comment.ID: true}
	current := comment

	for current.ParentCommentID != nil {
		depth++
		parent, err := findParent(ctx, *current.ParentCommentID)
		if err != nil {
			return depth, err
		}
		if parent == nil || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		current = parent
	}

	return depth, nil
}

// sortCommentsOldestFirst orders by createdAt then id, the order the tree
// builder expects.
func sortCommentsOldestFirst(comments []models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
}

package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"designsight/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id string, parent string, minute int) models.Comment {
	c := models.Comment{
		ID:         id,
		FeedbackID: "f1",
		Content:    id,
		Status:     models.CommentActive,
		CreatedAt:  time.Date(2025, 3, 1, 10, minute, 0, 0, time.UTC),
	}
	if parent != "" {
		p := parent
		c.ParentCommentID = &p
	}
	return c
}

// collect walks a forest and returns every id once per appearance
func collect(nodes []*models.CommentNode) []string {
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
		ids = append(ids, collect(n.Replies)...)
	}
	return ids
}

func TestBuildCommentTree(t *testing.T) {
	comments := []models.Comment{
		comment("a", "", 0),
		comment("b", "a", 1),
		comment("c", "a", 2),
		comment("d", "b", 3),
		comment("e", "", 4),
	}

	roots := BuildCommentTree(comments)

	require.Len(t, roots, 2)
	assert.Equal(t, "a", roots[0].ID)
	assert.Equal(t, "e", roots[1].ID)
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, "b", roots[0].Replies[0].ID)
	assert.Equal(t, "c", roots[0].Replies[1].ID)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, "d", roots[0].Replies[0].Replies[0].ID)
	assert.NotNil(t, roots[1].Replies, "leaf replies are empty, not nil")
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, collect(roots))
}

func TestBuildCommentTree_OrphansBecomeRoots(t *testing.T) {
	roots := BuildCommentTree([]models.Comment{
		comment("a", "", 0),
		comment("b", "gone", 1),
	})

	require.Len(t, roots, 2)
	assert.Equal(t, []string{"a", "b"}, collect(roots))
}

func TestBuildCommentTree_DeletedCommentsKeepTheirPlace(t *testing.T) {
	parent := comment("a", "", 0)
	parent.SoftDelete(time.Now())
	roots := BuildCommentTree([]models.Comment{parent, comment("b", "a", 1)})

	require.Len(t, roots, 1)
	assert.Equal(t, models.CommentDeleted, roots[0].Status)
	require.Len(t, roots[0].Replies, 1)
	assert.Equal(t, "b", roots[0].Replies[0].ID)
}

func TestBuildCommentTree_CyclesArePartitioned(t *testing.T) {
	roots := BuildCommentTree([]models.Comment{
		comment("x", "y", 0),
		comment("y", "x", 1),
		comment("s", "s", 2),
	})

	ids := collect(roots)
	assert.Len(t, ids, 3, "each comment appears exactly once")
	assert.ElementsMatch(t, []string{"x", "y", "s"}, ids)
}

func TestBuildCommentTree_Empty(t *testing.T) {
	roots := BuildCommentTree(nil)
	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}

func lookupFrom(comments ...models.Comment) ParentLookup {
	byID := make(map[string]*models.Comment, len(comments))
	for i := range comments {
		byID[comments[i].ID] = &comments[i]
	}
	return func(_ context.Context, id string) (*models.Comment, error) {
		return byID[id], nil
	}
}

func TestThreadDepth(t *testing.T) {
	a := comment("a", "", 0)
	b := comment("b", "a", 1)
	c := comment("c", "b", 2)
	lookup := lookupFrom(a, b, c)
	ctx := context.Background()

	tests := []struct {
		name    string
		comment models.Comment
		lookup  ParentLookup
		want    int
	}{
		{"root", a, lookup, 0},
		{"reply", b, lookup, 1},
		{"nested reply", c, lookup, 2},
		{"missing parent counts one hop", comment("o", "gone", 3), lookup, 1},
		{"cycle terminates", comment("x", "y", 0), lookupFrom(comment("x", "y", 0), comment("y", "x", 1)), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ThreadDepth(ctx, &tt.comment, tt.lookup)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestThreadDepth_LookupError(t *testing.T) {
	boom := errors.New("boom")
	c := comment("b", "a", 1)
	_, err := ThreadDepth(context.Background(), &c, func(context.Context, string) (*models.Comment, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

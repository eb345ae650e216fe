package service

// Тесты сборщика дерева комментариев (internal/service/tree.go).
//
// Проверяем:
//  - каждый некорневой узел появляется ровно один раз у своего родителя;
//  - порядок на каждом уровне — порядок создания (вход отсортирован ASC);
//  - осиротевший ответ (родитель исключён из входа) поднимается в корень;
//  - повторный вызов на том же входе даёт структурно идентичный результат;
//  - пустой вход и глубокая цепочка ответов.

import (
	"fmt"
	"testing"
	"time"

	"github.com/eduforum/discussions-service/internal/models"
	"github.com/stretchr/testify/require"
)

// makeComment — быстрый хелпер: id, parent и порядковый номер создания.
func makeComment(id, parentID string, seq int) models.Comment {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.Comment{
		ID:           id,
		DiscussionID: "d1",
		UserID:       "u1",
		Username:     "user-" + id,
		Content:      "content-" + id,
		ParentID:     parentID,
		CreatedAt:    base.Add(time.Duration(seq) * time.Minute),
	}
}

func TestBuildCommentTree_Empty(t *testing.T) {
	tree := BuildCommentTree(nil)
	require.NotNil(t, tree)
	require.Empty(t, tree)

	tree = BuildCommentTree([]models.Comment{})
	require.Empty(t, tree)
}

// Сценарий из жизни: корень C1, ответ C2 на C1.
func TestBuildCommentTree_RootAndReply(t *testing.T) {
	comments := []models.Comment{
		makeComment("c1", "", 0),
		makeComment("c2", "c1", 1),
	}

	tree := BuildCommentTree(comments)

	require.Len(t, tree, 1)
	require.Equal(t, "c1", tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	require.Equal(t, "c2", tree[0].Replies[0].ID)
	require.Equal(t, "c1", tree[0].Replies[0].ParentID)
	require.Empty(t, tree[0].Replies[0].Replies)
}

// Несколько корней и смешанные ответы: каждый некорневой узел ровно один раз
// у объявленного родителя, порядок уровней — порядок создания.
func TestBuildCommentTree_Forest(t *testing.T) {
	comments := []models.Comment{
		makeComment("a", "", 0),
		makeComment("b", "", 1),
		makeComment("a1", "a", 2),
		makeComment("b1", "b", 3),
		makeComment("a2", "a", 4),
		makeComment("a1x", "a1", 5),
	}

	tree := BuildCommentTree(comments)

	require.Len(t, tree, 2)
	require.Equal(t, "a", tree[0].ID)
	require.Equal(t, "b", tree[1].ID)

	require.Len(t, tree[0].Replies, 2)
	require.Equal(t, "a1", tree[0].Replies[0].ID)
	require.Equal(t, "a2", tree[0].Replies[1].ID)

	require.Len(t, tree[0].Replies[0].Replies, 1)
	require.Equal(t, "a1x", tree[0].Replies[0].Replies[0].ID)

	require.Len(t, tree[1].Replies, 1)
	require.Equal(t, "b1", tree[1].Replies[0].ID)

	// Узлы не дублируются: суммарное количество узлов равно входу.
	require.Equal(t, len(comments), countNodes(tree))
}

// Родитель исключён из входа (например, отфильтрован как удалённый) —
// ответ поднимается в корень, без синтеза tombstone-узла.
func TestBuildCommentTree_OrphanPromotedToRoot(t *testing.T) {
	comments := []models.Comment{
		makeComment("a", "", 0),
		makeComment("orphan", "deleted-parent", 1),
		makeComment("a1", "a", 2),
	}

	tree := BuildCommentTree(comments)

	require.Len(t, tree, 2)
	require.Equal(t, "a", tree[0].ID)
	require.Equal(t, "orphan", tree[1].ID)
	// ParentID сироты сохраняется как есть.
	require.Equal(t, "deleted-parent", tree[1].ParentID)
	require.Empty(t, tree[1].Replies)
}

// Повторный вызов на том же входе даёт структурно идентичный результат.
func TestBuildCommentTree_Deterministic(t *testing.T) {
	comments := []models.Comment{
		makeComment("a", "", 0),
		makeComment("a1", "a", 1),
		makeComment("b", "", 2),
		makeComment("a2", "a", 3),
	}

	first := BuildCommentTree(comments)
	second := BuildCommentTree(comments)

	require.Equal(t, first, second)
}

// Глубокая цепочка ответов: глубина ограничена только числом комментариев.
func TestBuildCommentTree_DeepChain(t *testing.T) {
	const depth = 100

	comments := make([]models.Comment, 0, depth)
	comments = append(comments, makeComment(nodeID(0), "", 0))
	for i := 1; i < depth; i++ {
		comments = append(comments, makeComment(
			nodeID(i), nodeID(i-1), i,
		))
	}

	tree := BuildCommentTree(comments)

	require.Len(t, tree, 1)

	node := tree[0]
	for i := 1; i < depth; i++ {
		require.Len(t, node.Replies, 1)
		node = node.Replies[0]
		require.Equal(t, nodeID(i), node.ID)
	}
	require.Empty(t, node.Replies)
}

// Вход не мутируется: содержимое исходного среза остаётся прежним.
func TestBuildCommentTree_DoesNotMutateInput(t *testing.T) {
	comments := []models.Comment{
		makeComment("a", "", 0),
		makeComment("a1", "a", 1),
	}

	snapshot := make([]models.Comment, len(comments))
	copy(snapshot, comments)

	_ = BuildCommentTree(comments)

	require.Equal(t, snapshot, comments)
}

func nodeID(i int) string {
	return fmt.Sprintf("n%02d", i)
}

func countNodes(nodes []*models.CommentNode) int {
	total := 0
	for _, n := range nodes {
		total += 1 + countNodes(n.Replies)
	}
	return total
}

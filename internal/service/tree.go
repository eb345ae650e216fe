package service

import "github.com/eduforum/discussions-service/internal/models"

// BuildCommentTree собирает из плоского списка комментариев лес вложенных
// веток. Чистая функция: один линейный проход, O(n) по времени и памяти.
//
// Контракт на вход (обеспечивает вызывающий, функция НЕ пересортировывает
// и НЕ перефильтровывает):
//   - комментарии одного обсуждения;
//   - мягко удалённые уже исключены;
//   - порядок created_at ASC — родитель всегда раньше ответа, поэтому
//     к моменту обработки ответа его родитель уже лежит в карте.
//
// Порядок на каждом уровне дерева — порядок вставки, то есть порядок
// создания: результат детерминирован и стабилен для одинакового входа.
//
// Если родитель ответа отсутствует во входном списке (возможно только если
// родителя исключил фильтр удалённых), ответ поднимается в корень леса.
// Tombstone-узел вместо удалённого родителя не синтезируется: фичи удаления
// комментариев ещё нет, и до её появления поведение оставлено как есть.
func BuildCommentTree(comments []models.Comment) []*models.CommentNode {
	byID := make(map[string]*models.CommentNode, len(comments))
	roots := make([]*models.CommentNode, 0)

	for i := range comments {
		c := &comments[i]

		node := &models.CommentNode{
			ID:        c.ID,
			Username:  c.Username,
			Content:   c.Content,
			ParentID:  c.ParentID,
			CreatedAt: c.CreatedAt,
			Replies:   []*models.CommentNode{},
		}

		byID[c.ID] = node

		if c.ParentID == "" {
			roots = append(roots, node)
			continue
		}

		if parent, ok := byID[c.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		} else {
			// Осиротевший ответ: родителя нет во входном списке.
			roots = append(roots, node)
		}
	}

	return roots
}

package models

import "time"

// Comment — внутренняя доменная модель комментария (MongoDB).
// Важно:
//   - ID/DiscussionID/UserID — ObjectID MongoDB в hex-представлении.
//   - ParentID — ObjectID родительского комментария; пустая строка = корневой.
//     Родитель обязан существовать на момент создания, поэтому всегда
//     parent.CreatedAt <= child.CreatedAt — на этом порядке держится сборка дерева.
//   - Replies — id прямых ответов; только дописывается ($push в транзакции).
//   - IsDeleted — мягкое удаление; ни одна текущая операция его не выставляет,
//     но read-path обязан фильтровать по нему.
type Comment struct {
	ID           string
	DiscussionID string
	UserID       string
	Username     string
	Content      string
	ParentID     string
	Replies      []string
	IsDeleted    bool
	CreatedAt    time.Time
}

// CommentNode — узел дерева ответов, собираемого на каждый запрос.
// Производная эфемерная структура; никогда не сохраняется.
type CommentNode struct {
	ID        string
	Username  string
	Content   string
	ParentID  string
	CreatedAt time.Time
	Replies   []*CommentNode
}

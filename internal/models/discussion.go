package models

import "time"

// Discussion — внутренняя доменная модель обсуждения (MongoDB).
// Важно:
//   - ID/UserID — ObjectID MongoDB в hex-представлении.
//   - Comments — упорядоченный список id комментариев; только дописывается,
//     никогда не переупорядочивается.
//   - CommentCount/LastCommentAt — денормализованные сводные поля; меняются
//     только атомарными $inc/$set в одной транзакции с созданием комментария,
//     никогда не пересчитываются сканом comments.
//   - LastCommentAt — нулевое время, пока нет ни одного комментария.
//   - IsArchived — архивное обсуждение не принимает новые комментарии.
type Discussion struct {
	ID            string
	UserID        string
	Username      string
	Subject       string
	Content       string
	Comments      []string
	CommentCount  int64
	LastCommentAt time.Time
	IsArchived    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DiscussionDetails — обсуждение вместе с собранным деревом комментариев.
// Производная структура для read-path; никогда не сохраняется.
type DiscussionDetails struct {
	ID           string
	Author       string
	Subject      string
	Content      string
	CommentCount int64
	Comments     []*CommentNode
}

package http

import (
	"fmt"
	"time"

	"github.com/eduforum/discussions-service/internal/models"
)

// Запросы/ответы HTTP-слоя и конвертация из доменных моделей.

type createDiscussionRequest struct {
	UserID  string `json:"userId"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

type addCommentRequest struct {
	UserID          string `json:"userId"`
	Content         string `json:"content"`
	ParentCommentID string `json:"parentCommentId,omitempty"`
}

type discussionResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Username      string     `json:"userName"`
	Subject       string     `json:"subject"`
	Content       string     `json:"content"`
	Comments      []string   `json:"comments"`
	CommentCount  int64      `json:"commentCount"`
	LastCommentAt *time.Time `json:"lastCommentAt,omitempty"`
	IsArchived    bool       `json:"isArchived"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type discussionSummary struct {
	Subject       string     `json:"subject"`
	Author        string     `json:"author"`
	LastCommentAt *time.Time `json:"lastCommentAt,omitempty"`
	CommentCount  int64      `json:"commentCount"`
	URL           string     `json:"url"`
}

type commentResponse struct {
	ID              string    `json:"id"`
	DiscussionID    string    `json:"discussionId"`
	UserID          string    `json:"userId"`
	Username        string    `json:"userName"`
	Content         string    `json:"content"`
	ParentCommentID string    `json:"parentCommentId,omitempty"`
	Replies         []string  `json:"replies"`
	IsDeleted       bool      `json:"isDeleted"`
	CreatedAt       time.Time `json:"createdAt"`
}

type commentNode struct {
	ID              string        `json:"id"`
	Username        string        `json:"userName"`
	Content         string        `json:"content"`
	ParentCommentID string        `json:"parentCommentId,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	Replies         []commentNode `json:"replies"`
}

type discussionDetails struct {
	ID           string        `json:"id"`
	Author       string        `json:"author"`
	Subject      string        `json:"subject"`
	Content      string        `json:"content"`
	CommentCount int64         `json:"commentCount"`
	Comments     []commentNode `json:"comments"`
}

type userResponse struct {
	Username  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"type"`
}

type userDetailsResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"type"`
}

// optionalTime — nil для нулевого времени (поле опускается в JSON).
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	out := t
	return &out
}

func toDiscussionResponse(d models.Discussion) discussionResponse {
	comments := d.Comments
	if comments == nil {
		comments = []string{}
	}

	return discussionResponse{
		ID:            d.ID,
		UserID:        d.UserID,
		Username:      d.Username,
		Subject:       d.Subject,
		Content:       d.Content,
		Comments:      comments,
		CommentCount:  d.CommentCount,
		LastCommentAt: optionalTime(d.LastCommentAt),
		IsArchived:    d.IsArchived,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// toDiscussionSummary собирает элемент ленты со ссылкой на комментарии.
func toDiscussionSummary(d models.Discussion, baseURL string) discussionSummary {
	return discussionSummary{
		Subject:       d.Subject,
		Author:        d.Username,
		LastCommentAt: optionalTime(d.LastCommentAt),
		CommentCount:  d.CommentCount,
		URL:           fmt.Sprintf("%s/discussions/%s/comments", baseURL, d.ID),
	}
}

func toCommentResponse(c models.Comment) commentResponse {
	replies := c.Replies
	if replies == nil {
		replies = []string{}
	}

	return commentResponse{
		ID:              c.ID,
		DiscussionID:    c.DiscussionID,
		UserID:          c.UserID,
		Username:        c.Username,
		Content:         c.Content,
		ParentCommentID: c.ParentID,
		Replies:         replies,
		IsDeleted:       c.IsDeleted,
		CreatedAt:       c.CreatedAt,
	}
}

// toCommentNodes рекурсивно конвертирует дерево ответов.
// Глубина ограничена числом комментариев обсуждения.
func toCommentNodes(nodes []*models.CommentNode) []commentNode {
	out := make([]commentNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, commentNode{
			ID:              n.ID,
			Username:        n.Username,
			Content:         n.Content,
			ParentCommentID: n.ParentID,
			CreatedAt:       n.CreatedAt,
			Replies:         toCommentNodes(n.Replies),
		})
	}

	return out
}

func toDiscussionDetails(d models.DiscussionDetails) discussionDetails {
	return discussionDetails{
		ID:           d.ID,
		Author:       d.Author,
		Subject:      d.Subject,
		Content:      d.Content,
		CommentCount: d.CommentCount,
		Comments:     toCommentNodes(d.Comments),
	}
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
	}
}

func toUserDetailsResponse(u models.User) userDetailsResponse {
	return userDetailsResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
	}
}

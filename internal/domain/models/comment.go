package models

import (
	"slices"
	"time"
)

type CommentStatus string

const (
	CommentActive  CommentStatus = "active"
	CommentEdited  CommentStatus = "edited"
	CommentDeleted CommentStatus = "deleted"
)

// DeletedCommentContent replaces the content of a soft-deleted comment.
const DeletedCommentContent = "[This comment has been deleted]"

// DefaultEditReason is recorded in edit history when the caller gives none.
const DefaultEditReason = "Content updated"

type Author struct {
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

type Mention struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentDocument AttachmentType = "document"
	AttachmentLink     AttachmentType = "link"
)

var AttachmentTypes = []AttachmentType{AttachmentImage, AttachmentDocument, AttachmentLink}

type Attachment struct {
	Filename string         `json:"filename"`
	URL      string         `json:"url"`
	Type     AttachmentType `json:"type"`
}

type ReactionType string

const (
	ReactionLike       ReactionType = "like"
	ReactionLove       ReactionType = "love"
	ReactionThumbsUp   ReactionType = "thumbs_up"
	ReactionThumbsDown ReactionType = "thumbs_down"
	ReactionLaugh      ReactionType = "laugh"
	ReactionSad        ReactionType = "sad"
)

var ReactionTypes = []ReactionType{
	ReactionLike, ReactionLove, ReactionThumbsUp, ReactionThumbsDown, ReactionLaugh, ReactionSad,
}

type ReactionAuthor struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type Reaction struct {
	Type      ReactionType   `json:"type"`
	Author    ReactionAuthor `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
}

type EditEntry struct {
	PreviousContent string    `json:"previousContent"`
	EditedAt        time.Time `json:"editedAt"`
	Reason          string    `json:"reason"`
}

type Comment struct {
	ID              string        `json:"id" db:"id"`
	FeedbackID      string        `json:"feedbackId" db:"feedback_id"`
	ParentCommentID *string       `json:"parentCommentId" db:"parent_comment_id"`
	Author          Author        `json:"author" db:"author"`
	Content         string        `json:"content" db:"content"`
	Mentions        []Mention     `json:"mentions" db:"mentions"`
	Attachments     []Attachment  `json:"attachments" db:"attachments"`
	Reactions       []Reaction    `json:"reactions" db:"reactions"`
	Status          CommentStatus `json:"status" db:"status"`
	EditHistory     []EditEntry   `json:"editHistory" db:"edit_history"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// AddReaction records a reaction. An author already present (matched by
// name) has their reaction overwritten in place; otherwise it is appended.
func (c *Comment) AddReaction(kind ReactionType, author ReactionAuthor, at time.Time) {
	for i := range c.Reactions {
		if c.Reactions[i].Author.Name == author.Name {
			c.Reactions[i].Type = kind
			c.Reactions[i].Author.Role = author.Role
			c.Reactions[i].CreatedAt = at
			return
		}
	}
	c.Reactions = append(c.Reactions, Reaction{Type: kind, Author: author, CreatedAt: at})
}

// RemoveReaction drops every reaction by authorName. Removing an absent
// reaction is a no-op.
func (c *Comment) RemoveReaction(authorName string) {
	c.Reactions = slices.DeleteFunc(c.Reactions, func(r Reaction) bool {
		return r.Author.Name == authorName
	})
}

// Edit replaces the content and pushes the old content onto the history.
func (c *Comment) Edit(content, reason string, at time.Time) {
	if reason == "" {
		reason = DefaultEditReason
	}
	c.EditHistory = append(c.EditHistory, EditEntry{
		PreviousContent: c.Content,
		EditedAt:        at,
		Reason:          reason,
	})
	c.Content = content
	c.Status = CommentEdited
	c.UpdatedAt = at
}

// SoftDelete tombstones the comment. The record and its replies stay addressable.
func (c *Comment) SoftDelete(at time.Time) {
	c.Status = CommentDeleted
	c.Content = DeletedCommentContent
	c.UpdatedAt = at
}

// CommentNode is one comment in a thread view together with its replies.
type CommentNode struct {
	*Comment
	Replies []*CommentNode `json:"replies"`
}

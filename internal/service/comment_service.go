package service

import (
	"context"

	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentService records and lists positioned annotations. Comments are
// immutable in the current surface; reads return the author snapshot taken
// at write time rather than re-joining the live user record.
type CommentService struct {
	comments  repository.CommentRepository
	publisher CommentPublisher
}

func NewCommentService(comments repository.CommentRepository, publisher CommentPublisher) *CommentService {
	return &CommentService{comments: comments, publisher: publisher}
}

// CreateCommentInput mirrors the annotation payload sent by the embed
// script, including the author snapshot.
type CreateCommentInput struct {
	UserID      primitive.ObjectID
	WorkspaceID string
	UserEmail   string
	UserName    string
	ProjectID   string
	IframeID    string
	IframeURL   string
	IframePage  string
	Resolved    bool
	Text        string
	Meta        domain.CommentMeta
}

func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*domain.Comment, error) {
	if in.UserID.IsZero() || in.WorkspaceID == "" || in.UserEmail == "" ||
		in.UserName == "" || in.ProjectID == "" || in.IframeID == "" || in.Text == "" {
		return nil, domain.ErrMissingFields
	}
	if len(in.Text) > domain.MaxCommentLength {
		return nil, domain.ErrTextTooLong
	}
	if in.Meta.DeviceType != "" && !in.Meta.DeviceType.Valid() {
		return nil, domain.ErrInvalidDeviceType
	}

	comment := &domain.Comment{
		UserID:      in.UserID,
		WorkspaceID: in.WorkspaceID,
		UserEmail:   in.UserEmail,
		UserName:    in.UserName,
		ProjectID:   in.ProjectID,
		IframeID:    in.IframeID,
		IframeURL:   in.IframeURL,
		IframePage:  in.IframePage,
		Resolved:    in.Resolved,
		Text:        in.Text,
		Meta:        in.Meta,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Live delivery is best effort and must never fail the write.
	if s.publisher != nil {
		s.publisher.PublishComment(comment.IframeID, comment)
	}
	return comment, nil
}

// List returns comments for an iframe session, optionally narrowed to one
// page and one device type. Both filters must match when both are given.
func (s *CommentService) List(ctx context.Context, iframeID, page string, deviceType domain.DeviceType) ([]*domain.Comment, error) {
	if iframeID == "" {
		return nil, domain.ErrMissingFields
	}
	if deviceType != "" && !deviceType.Valid() {
		return nil, domain.ErrInvalidDeviceType
	}
	return s.comments.ListByIframe(ctx, iframeID, page, deviceType)
}

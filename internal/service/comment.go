package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/auction-house/internal/apperror"
	"github.com/sakif/auction-house/internal/model"
	"github.com/sakif/auction-house/internal/repository"
)

const MaxCommentLength = 500

// CommentService appends and lists comments on a listing's page.
type CommentService struct {
	comments repository.CommentRepository
	listings repository.ListingRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, listings repository.ListingRepository, logger *slog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		listings: listings,
		logger:   logger,
	}
}

// Add appends a comment. Comments are allowed on closed listings too;
// the page stays visible after the auction ends.
func (s *CommentService) Add(ctx context.Context, listingID, commenterID, text string) (*model.Comment, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, apperror.ValidationFailed("listingId", "listing ID is required")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}
	if len(text) > MaxCommentLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	if _, err := s.listings.GetListingByID(ctx, listingID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		CommenterID: commenterID,
		ListingID:   listingID,
		Text:        text,
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.String("listingID", listingID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	return comment, nil
}

// ListForListing returns a listing's comments, oldest first.
func (s *CommentService) ListForListing(ctx context.Context, listingID string) ([]model.Comment, error) {
	comments, err := s.comments.CommentsForListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return comments, nil
}

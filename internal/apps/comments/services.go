package comments

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/culturemap/culturemap-backend/internal/footprint"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSiteNotFound         = footprint.ErrSiteNotFound
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrTextRequired         = errors.New("comment text is required")
	ErrAlreadyCommented     = errors.New("you have already commented on this site")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotOwner             = errors.New("you can only delete your own comments")
	ErrContentInappropriate = errors.New("content rejected")
)

// RejectedError explains why the moderation filter refused a comment.
type RejectedError struct {
	Reason  string
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

func (e *RejectedError) Is(target error) bool { return target == ErrContentInappropriate }

// ContentFilter is satisfied by services.ModerationService.
type ContentFilter interface {
	FilterContent(text string) (bool, string)
	GetRejectionMessage(reason string) string
}

const (
	defaultSiteLimit     = 5
	maxSiteLimit         = 50
	defaultAdminPageSize = 20
	maxAdminPageSize     = 100
)

type CommentService struct {
	db     *gorm.DB
	sites  footprint.SiteLookup
	filter ContentFilter
}

func NewCommentService(db *gorm.DB, sites footprint.SiteLookup, filter ContentFilter) *CommentService {
	return &CommentService{db: db, sites: sites, filter: filter}
}

// Validate checks a new comment without touching the database.
func (s *CommentService) Validate(req *CreateCommentRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return ErrInvalidRating
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return ErrTextRequired
	}
	if s.filter != nil {
		if ok, reason := s.filter.FilterContent(req.Text); !ok {
			return &RejectedError{Reason: reason, Message: s.filter.GetRejectionMessage(reason)}
		}
	}
	return nil
}

func (s *CommentService) Create(ctx context.Context, userID uuid.UUID, siteID uint, req CreateCommentRequest) (*models.Comment, error) {
	if err := s.Validate(&req); err != nil {
		return nil, err
	}
	if _, err := s.sites.FindSite(ctx, siteID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:     uuid.New(),
		SiteID: siteID,
		UserID: userID,
		Rating: req.Rating,
		Text:   req.Text,
	}
	err := s.db.WithContext(ctx).Omit("User", "Site").Create(comment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyCommented
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// visibleForSite scopes to comments on siteID by users that still exist.
func (s *CommentService) visibleForSite(ctx context.Context, siteID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("comments AS c").
		Joins("JOIN users AS u ON u.id = c.user_id AND u.deleted_at IS NULL").
		Where("c.site_id = ?", siteID)
}

// ForSite pages through a site's comments, newest first. Totals and the
// average cover the same comments the page is drawn from.
func (s *CommentService) ForSite(ctx context.Context, siteID uint, limit, offset int) (*SiteCommentsResponse, error) {
	if limit <= 0 {
		limit = defaultSiteLimit
	}
	if limit > maxSiteLimit {
		limit = maxSiteLimit
	}
	if offset < 0 {
		offset = 0
	}

	resp := &SiteCommentsResponse{Comments: make([]SiteComment, 0)}
	err := s.visibleForSite(ctx, siteID).
		Select("c.id, c.rating, c.text, c.created_at, u.id AS user_id, u.username").
		Order("c.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&resp.Comments).Error
	if err != nil {
		return nil, err
	}

	var agg struct {
		Count int64
		Avg   *float64
	}
	err = s.visibleForSite(ctx, siteID).
		Select("COUNT(*) AS count, AVG(c.rating)::float8 AS avg").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	resp.Total = agg.Count
	resp.RatingCount = agg.Count
	if agg.Avg != nil {
		resp.AvgRating = math.Round(*agg.Avg*10) / 10
	}
	return resp, nil
}

func (s *CommentService) ForUser(ctx context.Context, userID uuid.UUID) ([]UserComment, error) {
	comments := make([]UserComment, 0)
	err := s.db.WithContext(ctx).
		Table("comments AS c").
		Select("c.id, c.rating, c.text, c.created_at, s.id AS site_id, s.name AS site_name").
		Joins("JOIN sites AS s ON s.id = c.site_id").
		Where("c.user_id = ?", userID).
		Order("c.created_at DESC").
		Scan(&comments).Error
	return comments, err
}

// Delete removes a comment. Only its author or an admin may do so.
func (s *CommentService) Delete(ctx context.Context, commentID, requesterID uuid.UUID, isAdmin bool) error {
	var comment models.Comment
	err := s.db.WithContext(ctx).Select("id", "user_id").First(&comment, "id = ?", commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}
	if comment.UserID != requesterID && !isAdmin {
		return ErrNotOwner
	}
	return s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", commentID).Error
}

func (s *CommentService) ListAll(ctx context.Context, page, pageSize int) (*AdminCommentsResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultAdminPageSize
	}
	if pageSize > maxAdminPageSize {
		pageSize = maxAdminPageSize
	}

	resp := &AdminCommentsResponse{
		Comments: make([]AdminComment, 0),
		Page:     page,
		PageSize: pageSize,
	}
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Count(&resp.Total).Error; err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).
		Table("comments AS c").
		Select(`c.id, c.rating, c.text, c.created_at,
			u.id AS user_id, u.username, s.id AS site_id, s.name AS site_name`).
		Joins("JOIN users AS u ON u.id = c.user_id").
		Joins("JOIN sites AS s ON s.id = c.site_id").
		Order("c.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&resp.Comments).Error
	if err != nil {
		return nil, err
	}
	resp.TotalPages = int((resp.Total + int64(pageSize) - 1) / int64(pageSize))
	return resp, nil
}

// BatchDelete removes the given comments and returns how many existed.
func (s *CommentService) BatchDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Comment{})
	return result.RowsAffected, result.Error
}

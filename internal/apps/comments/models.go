package comments

import (
	"time"

	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
)

type CreateCommentRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text" validate:"max=2000"`
}

type BatchDeleteRequest struct {
	CommentIDs []uuid.UUID `json:"comment_ids" validate:"required,min=1,max=200"`
}

type CreateCommentResponse struct {
	Message string          `json:"message"`
	Comment *models.Comment `json:"comment"`
}

type BatchDeleteResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type SiteComment struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
}

type SiteCommentsResponse struct {
	Comments    []SiteComment `json:"comments"`
	Total       int64         `json:"total"`
	AvgRating   float64       `json:"avg_rating"`
	RatingCount int64         `json:"rating_count"`
}

type UserComment struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	SiteID    uint      `json:"site_id"`
	SiteName  string    `json:"site_name"`
}

type AdminComment struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	SiteID    uint      `json:"site_id"`
	SiteName  string    `json:"site_name"`
}

type AdminCommentsResponse struct {
	Comments   []AdminComment `json:"comments"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

package comments

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/culturemap/culturemap-backend/internal/dto"
	"github.com/culturemap/culturemap-backend/internal/middleware"
	"github.com/culturemap/culturemap-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CommentHandler struct {
	service *CommentService
}

func NewCommentHandler(service *CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func parseSiteID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("siteId"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ListForSite godoc
// @Summary List comments for a site
// @Description Newest first, with total and average rating.
// @Tags Comments
// @Produce json
// @Param siteId path integer true "Site ID"
// @Param limit query integer false "Page size (default 5, max 50)"
// @Param offset query integer false "Offset"
// @Success 200 {object} SiteCommentsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid site ID"
// @Router /api/comments/site/{siteId} [get]
func (h *CommentHandler) ListForSite(c *fiber.Ctx) error {
	siteID, ok := parseSiteID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid site ID",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "5"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	resp, err := h.service.ForSite(c.UserContext(), siteID, limit, offset)
	if err != nil {
		slog.Error("failed to list site comments", "action", "list_site_comments", "site_id", siteID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch comments",
		})
	}
	return c.JSON(resp)
}

// Create godoc
// @Summary Comment on a site
// @Description Rating 1 to 5 and a non-empty text that passes moderation. One comment per site and user.
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path integer true "Site ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} CreateCommentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid rating, empty or rejected text"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Site not found"
// @Failure 409 {object} dto.ErrorResponse "Already commented"
// @Router /api/comments/site/{siteId} [post]
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	siteID, ok := parseSiteID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid site ID",
		})
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	comment, err := h.service.Create(c.UserContext(), userID, siteID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating),
			errors.Is(err, ErrTextRequired),
			errors.Is(err, ErrContentInappropriate):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, ErrSiteNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Site not found",
			})
		case errors.Is(err, ErrAlreadyCommented):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("failed to create comment", "action", "create_comment", "user_id", userID.String(), "site_id", siteID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to publish comment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(CreateCommentResponse{
		Message: "Comment published",
		Comment: comment,
	})
}

// ListForUser godoc
// @Summary List comments by a user
// @Tags Comments
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} UserComment
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Router /api/comments/user/{userId} [get]
func (h *CommentHandler) ListForUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	comments, err := h.service.ForUser(c.UserContext(), userID)
	if err != nil {
		slog.Error("failed to list user comments", "action", "list_user_comments", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch comments",
		})
	}
	return c.JSON(comments)
}

// Delete godoc
// @Summary Delete a comment
// @Description Authors may delete their own comments, admins any comment.
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /api/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comment ID",
		})
	}

	if err := h.service.Delete(c.UserContext(), commentID, userID, middleware.IsAdmin(c)); err != nil {
		switch {
		case errors.Is(err, ErrCommentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("failed to delete comment", "action", "delete_comment", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete comment",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Comment deleted"})
}

// ListAll godoc
// @Summary List all comments
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query integer false "Page (default 1)"
// @Param page_size query integer false "Page size (default 20, max 100)"
// @Success 200 {object} AdminCommentsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /api/comments/all/list [get]
func (h *CommentHandler) ListAll(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	resp, err := h.service.ListAll(c.UserContext(), page, pageSize)
	if err != nil {
		slog.Error("failed to list all comments", "action", "admin_list_comments", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch comments",
		})
	}
	return c.JSON(resp)
}

// BatchDelete godoc
// @Summary Delete several comments
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BatchDeleteRequest true "Comment IDs"
// @Success 200 {object} BatchDeleteResponse
// @Failure 400 {object} dto.ErrorResponse "No comments selected"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /api/comments/batch-delete [post]
func (h *CommentHandler) BatchDelete(c *fiber.Ctx) error {
	var req BatchDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Select at least one comment to delete",
		})
	}

	deleted, err := h.service.BatchDelete(c.UserContext(), req.CommentIDs)
	if err != nil {
		slog.Error("failed to batch delete comments", "action", "admin_batch_delete_comments", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Batch delete failed",
		})
	}

	return c.JSON(BatchDeleteResponse{
		Message: fmt.Sprintf("Deleted %d comment(s)", deleted),
		Deleted: deleted,
	})
}

package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
)

// PointHandler /point 路由
type PointHandler struct {
	core   *usecase.PointUseCase
	logger *slog.Logger
}

// PointRequest 充值 / 使用的請求內容，amount 必填
type PointRequest struct {
	Amount *int64 `json:"amount"`
}

func NewPointHandler(core *usecase.PointUseCase, logger *slog.Logger) *PointHandler {
	return &PointHandler{
		core:   core,
		logger: logger,
	}
}

// Register 掛載路由
func (h *PointHandler) Register(r fiber.Router) {
	g := r.Group("/point")
	g.Get("/:id", h.GetPoint)
	g.Get("/:id/histories", h.GetHistories)
	g.Patch("/:id/charge", h.Charge)
	g.Patch("/:id/use", h.Use)
}

// GetPoint GET /point/:id
func (h *PointHandler) GetPoint(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, CodeIllegalArgument, err.Error())
	}
	p, err := h.core.GetPoint(c.UserContext(), userID)
	if err != nil {
		return writeDomainError(c, h.logger, err)
	}
	return c.JSON(p)
}

// GetHistories GET /point/:id/histories
func (h *PointHandler) GetHistories(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, CodeIllegalArgument, err.Error())
	}
	histories, err := h.core.GetHistories(c.UserContext(), userID)
	if err != nil {
		return writeDomainError(c, h.logger, err)
	}
	return c.JSON(histories)
}

// Charge PATCH /point/:id/charge
func (h *PointHandler) Charge(c *fiber.Ctx) error {
	userID, amount, err := parseAmountRequest(c)
	if err != nil {
		return err
	}
	p, err := h.core.Charge(c.UserContext(), userID, amount)
	if err != nil {
		return writeDomainError(c, h.logger, err)
	}
	h.logger.Info("point charged", "user_id", userID, "amount", amount, "point", p.Point)
	return c.JSON(p)
}

// Use PATCH /point/:id/use
func (h *PointHandler) Use(c *fiber.Ctx) error {
	userID, amount, err := parseAmountRequest(c)
	if err != nil {
		return err
	}
	p, err := h.core.Use(c.UserContext(), userID, amount)
	if err != nil {
		return writeDomainError(c, h.logger, err)
	}
	h.logger.Info("point used", "user_id", userID, "amount", amount, "point", p.Point)
	return c.JSON(p)
}

var errInvalidUserID = errors.New("user id must be an integer")

func userIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, errInvalidUserID
	}
	return id, nil
}

// parseAmountRequest 解析路徑與 body。
// 回傳的 error 是 fiber.Error，交給 errorHandler 轉成回應。
func parseAmountRequest(c *fiber.Ctx) (int64, int64, error) {
	userID, err := userIDParam(c)
	if err != nil {
		return 0, 0, fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if !c.Is("json") {
		return 0, 0, fiber.NewError(http.StatusUnsupportedMediaType, "content type must be application/json")
	}
	var req PointRequest
	if err := c.BodyParser(&req); err != nil {
		return 0, 0, fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if req.Amount == nil {
		return 0, 0, fiber.NewError(http.StatusBadRequest, "amount is required")
	}
	return userID, *req.Amount, nil
}

package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
)

// ErrorResponse 失敗時的回應內容
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// 回應的錯誤代碼
const (
	CodeIllegalArgument     = "ILLEGAL_ARGUMENT"
	CodeMinCharge           = "MIN_CHARGE_ERROR"
	CodeMaxCharge           = "MAX_CHARGE_ERROR"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeBalanceOverflow     = "BALANCE_OVERFLOW"
	CodeInternal            = "INTERNAL_ERROR"
	CodeUnsupportedMedia    = "UNSUPPORTED_MEDIA_TYPE"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
)

// writeDomainError 業務錯誤 -> HTTP status
func writeDomainError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	switch domain.KindOf(err) {
	case domain.KindInvalidAmount:
		return writeError(c, http.StatusBadRequest, CodeIllegalArgument, err.Error())
	case domain.KindBelowMinimumCharge:
		return writeError(c, http.StatusBadRequest, CodeMinCharge, err.Error())
	case domain.KindAboveMaximumCharge:
		return writeError(c, http.StatusBadRequest, CodeMaxCharge, err.Error())
	case domain.KindInsufficientBalance:
		return writeError(c, http.StatusConflict, CodeInsufficientBalance, err.Error())
	case domain.KindBalanceOverflow:
		return writeError(c, http.StatusConflict, CodeBalanceOverflow, err.Error())
	default:
		logger.Error("point operation failed", "method", c.Method(), "path", c.Path(), "error", err)
		return writeError(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{Code: code, Message: message})
}

// errorHandler 處理 handler 沒有自行回應的錯誤 (路由不存在、panic 等)
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return writeError(c, fe.Code, codeForStatus(fe.Code), fe.Message)
		}
		logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return writeError(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeIllegalArgument
	case http.StatusUnsupportedMediaType:
		return CodeUnsupportedMedia
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusMethodNotAllowed:
		return CodeMethodNotAllowed
	default:
		return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

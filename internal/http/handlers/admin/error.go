package admin

import (
	"strconv"
	"time"

	handlershared "github.com/shopcore-next/internal/http/handlers/shared"
	"github.com/shopcore-next/internal/http/response"
	"github.com/shopcore-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

var adminOrderErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrPaymentStatusInvalid, Code: response.CodeBadRequest, Key: "error.payment_status_invalid"},
}

var discountErrorRules = []handlershared.MappedError{
	{Target: service.ErrDiscountPayloadInvalid, Code: response.CodeBadRequest, Key: "error.discount_payload_invalid"},
	{Target: service.ErrDiscountCodeExists, Code: response.CodeBadRequest, Key: "error.discount_code_exists"},
	{Target: service.ErrDiscountNotFound, Code: response.CodeNotFound, Key: "error.discount_not_found"},
}

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "error.admin_id_invalid", "error.admin_id_type_invalid")
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

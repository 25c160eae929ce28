package public

import (
	handlershared "github.com/shopcore-next/internal/http/handlers/shared"
	"github.com/shopcore-next/internal/http/response"
	"github.com/shopcore-next/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

var captchaErrorRules = []mappedHandlerError{
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeInternal, Key: "error.captcha_config_invalid"},
}

var checkoutErrorRules = handlershared.ConcatMappedErrors(handlershared.CheckoutErrorRules, []mappedHandlerError{
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
})

var paymentReturnErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidSignature, Code: response.CodeBadRequest, Key: "error.invalid_signature"},
	{Target: service.ErrCallbackInvalid, Code: response.CodeBadRequest, Key: "error.callback_invalid"},
	{Target: service.ErrPaymentAmountMismatch, Code: response.CodeBadRequest, Key: "error.payment_amount_mismatch"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrGatewayNotConfigured, Code: response.CodeInternal, Key: "error.gateway_not_configured"},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrCartQuantityInvalid, Code: response.CodeBadRequest, Key: "error.cart_quantity_invalid"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
}

var userOrderErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
}

var userAuthErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.invalid_email"},
	{Target: service.ErrUserExists, Code: response.CodeBadRequest, Key: "error.user_exists"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
}

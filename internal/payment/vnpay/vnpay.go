package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 网关字段名
const (
	FieldVersion           = "vnp_Version"
	FieldCommand           = "vnp_Command"
	FieldTmnCode           = "vnp_TmnCode"
	FieldAmount            = "vnp_Amount"
	FieldCurrCode          = "vnp_CurrCode"
	FieldTxnRef            = "vnp_TxnRef"
	FieldOrderInfo         = "vnp_OrderInfo"
	FieldOrderType         = "vnp_OrderType"
	FieldLocale            = "vnp_Locale"
	FieldReturnURL         = "vnp_ReturnUrl"
	FieldIPAddr            = "vnp_IpAddr"
	FieldCreateDate        = "vnp_CreateDate"
	FieldExpireDate        = "vnp_ExpireDate"
	FieldBankCode          = "vnp_BankCode"
	FieldResponseCode      = "vnp_ResponseCode"
	FieldTransactionStatus = "vnp_TransactionStatus"
	FieldTransactionNo     = "vnp_TransactionNo"
	FieldPayDate           = "vnp_PayDate"
	FieldSecureHash        = "vnp_SecureHash"
	FieldSecureHashType    = "vnp_SecureHashType"
)

const (
	HashTypeHMACSHA512  = "HmacSHA512"
	ResponseCodeSuccess = "00"

	commandPay     = "pay"
	dateLayout     = "20060102150405"
	minorUnitScale = 100
)

var (
	ErrConfigInvalid    = errors.New("vnpay config invalid")
	ErrRequestInvalid   = errors.New("vnpay request invalid")
	ErrSignatureInvalid = errors.New("vnpay signature invalid")
	ErrCallbackInvalid  = errors.New("vnpay callback invalid")
)

// 网关所在时区（GMT+7）
var gatewayLocation = time.FixedZone("ICT", 7*60*60)

// Config 网关配置，进程启动时构建一次
type Config struct {
	MerchantCode  string
	Secret        string
	BaseURL       string
	ReturnURL     string
	Version       string
	Locale        string
	CurrencyCode  string
	OrderType     string
	ExpireMinutes int
}

// PaymentRequest 发起支付参数
type PaymentRequest struct {
	TxnRef    string
	Amount    decimal.Decimal
	OrderInfo string
	ClientIP  string
	Locale    string
	BankCode  string
	CreatedAt time.Time
}

// ReturnResult 已验签的回跳结果
type ReturnResult struct {
	TxnRef            string
	AmountMinor       int64
	ResponseCode      string
	TransactionStatus string
	TransactionNo     string
	BankCode          string
	PayDate           string
}

// Success 网关是否报告支付成功
func (r *ReturnResult) Success() bool {
	return r != nil && r.ResponseCode == ResponseCodeSuccess
}

// ValidateConfig 校验网关配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.MerchantCode) == "" {
		return fmt.Errorf("%w: merchant_code is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		return fmt.Errorf("%w: secret is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ReturnURL) == "" {
		return fmt.Errorf("%w: return_url is required", ErrConfigInvalid)
	}
	return nil
}

// NewTxnRef 生成交易流水号（UUIDv7，去掉连字符）
func NewTxnRef() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// ToMinorUnits 金额转换为网关最小单位
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(minorUnitScale)).Round(0).IntPart()
}

// BuildPaymentURL 生成带签名的跳转地址
func BuildPaymentURL(cfg *Config, req PaymentRequest) (string, error) {
	if err := ValidateConfig(cfg); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.TxnRef) == "" {
		return "", fmt.Errorf("%w: txn ref is required", ErrRequestInvalid)
	}
	if !req.Amount.IsPositive() {
		return "", fmt.Errorf("%w: amount must be positive", ErrRequestInvalid)
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.In(gatewayLocation)
	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = cfg.Locale
	}

	params := map[string]string{
		FieldVersion:    cfg.Version,
		FieldCommand:    commandPay,
		FieldTmnCode:    cfg.MerchantCode,
		FieldAmount:     strconv.FormatInt(ToMinorUnits(req.Amount), 10),
		FieldCurrCode:   cfg.CurrencyCode,
		FieldTxnRef:     req.TxnRef,
		FieldOrderInfo:  req.OrderInfo,
		FieldOrderType:  cfg.OrderType,
		FieldLocale:     locale,
		FieldReturnURL:  cfg.ReturnURL,
		FieldIPAddr:     req.ClientIP,
		FieldCreateDate: createdAt.Format(dateLayout),
		FieldBankCode:   req.BankCode,
	}
	if cfg.ExpireMinutes > 0 {
		params[FieldExpireDate] = createdAt.Add(time.Duration(cfg.ExpireMinutes) * time.Minute).Format(dateLayout)
	}

	canonical := CanonicalQuery(params)
	signature := Sign(cfg.Secret, canonical)
	return joinURL(cfg.BaseURL, canonical+"&"+FieldSecureHashType+"="+HashTypeHMACSHA512+"&"+FieldSecureHash+"="+signature), nil
}

// VerifyReturn 校验回跳参数签名并解析结果
// 签名不匹配时返回 ErrSignatureInvalid，调用方不得据此修改订单
func VerifyReturn(cfg *Config, query url.Values) (*ReturnResult, error) {
	if cfg == nil || strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("%w: secret is required", ErrConfigInvalid)
	}
	received := strings.TrimSpace(query.Get(FieldSecureHash))
	if received == "" {
		return nil, fmt.Errorf("%w: signature missing", ErrSignatureInvalid)
	}

	params := make(map[string]string, len(query))
	for key, values := range query {
		if key == FieldSecureHash || key == FieldSecureHashType || len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}
	expected := Sign(cfg.Secret, CanonicalQuery(params))
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return nil, ErrSignatureInvalid
	}

	result := &ReturnResult{
		TxnRef:            strings.TrimSpace(params[FieldTxnRef]),
		ResponseCode:      strings.TrimSpace(params[FieldResponseCode]),
		TransactionStatus: strings.TrimSpace(params[FieldTransactionStatus]),
		TransactionNo:     strings.TrimSpace(params[FieldTransactionNo]),
		BankCode:          strings.TrimSpace(params[FieldBankCode]),
		PayDate:           strings.TrimSpace(params[FieldPayDate]),
	}
	if result.TxnRef == "" {
		return nil, fmt.Errorf("%w: txn ref missing", ErrCallbackInvalid)
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(params[FieldAmount]), 10, 64)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("%w: amount invalid", ErrCallbackInvalid)
	}
	result.AmountMinor = amount
	return result, nil
}

// CanonicalQuery 生成待签名串：过滤空值、编码、按编码后的 key 排序并以 & 拼接
func CanonicalQuery(params map[string]string) string {
	type pair struct {
		key   string
		value string
	}
	pairs := make([]pair, 0, len(params))
	for key, value := range params {
		if key == "" || value == "" {
			continue
		}
		pairs = append(pairs, pair{key: encodeComponent(key), value: encodeComponent(value)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].key < pairs[j].key
	})
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}

// Sign 计算 HMAC-SHA512 签名（小写 hex）
func Sign(secret, canonical string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

const upperHex = "0123456789ABCDEF"

// encodeComponent 按 encodeURIComponent 的保留字符集编码，空格输出为 +
func encodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isUnreserved(c):
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0F])
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

func joinURL(baseURL, query string) string {
	base := strings.TrimSpace(baseURL)
	if strings.Contains(base, "?") {
		return base + "&" + query
	}
	return base + "?" + query
}

package i18n

// messagesVI 越南语消息
var messagesVI = map[string]string{
	"error.bad_request":              "Yêu cầu không hợp lệ",
	"error.internal":                 "Lỗi máy chủ nội bộ",
	"error.not_found":                "Không tìm thấy tài nguyên",
	"error.unauthorized":             "Chưa đăng nhập hoặc phiên đã hết hạn",
	"error.forbidden":                "Không có quyền truy cập",
	"error.jwt_secret_missing":       "Chưa cấu hình khóa JWT",
	"error.token_invalid":            "Token không hợp lệ hoặc đã hết hạn",
	"error.token_revoked":            "Token đã bị thu hồi, vui lòng đăng nhập lại",
	"error.auth_header_missing":      "Thiếu thông tin xác thực",
	"error.auth_header_invalid":      "Thông tin xác thực không đúng định dạng",
	"error.user_id_invalid":          "Mã người dùng không hợp lệ",
	"error.user_id_type_invalid":     "Kiểu mã người dùng không hợp lệ",
	"error.admin_id_invalid":         "Mã quản trị viên không hợp lệ",
	"error.admin_id_type_invalid":    "Kiểu mã quản trị viên không hợp lệ",
	"error.rate_limit_unavailable":   "Dịch vụ giới hạn tần suất không khả dụng",
	"error.rate_limited":             "Quá nhiều yêu cầu, vui lòng thử lại sau %d giây",
	"error.login_too_many":           "Đăng nhập quá nhiều lần, vui lòng thử lại sau %d giây",
	"error.checkout_too_many":        "Đặt hàng quá nhiều lần, vui lòng thử lại sau %d giây",
	"error.invalid_credentials":      "Tài khoản hoặc mật khẩu không đúng",
	"error.password_invalid":         "Mật khẩu phải có ít nhất 8 ký tự",
	"error.user_disabled":            "Tài khoản đã bị vô hiệu hóa",
	"error.user_exists":              "Email đã được đăng ký",
	"error.invalid_email":            "Địa chỉ email không hợp lệ",
	"error.login_failed":             "Đăng nhập thất bại",
	"error.register_failed":          "Đăng ký thất bại",
	"error.captcha_required":         "Vui lòng nhập mã xác thực",
	"error.captcha_invalid":          "Mã xác thực không đúng",
	"error.captcha_config_invalid":   "Cấu hình mã xác thực không hợp lệ",
	"error.captcha_generate_failed":  "Không thể tạo mã xác thực",
	"error.checkout_items_empty":     "Không có sản phẩm để thanh toán",
	"error.cart_empty":               "Giỏ hàng trống",
	"error.invalid_order_item":       "Sản phẩm trong đơn không hợp lệ",
	"error.customer_info_required":   "Vui lòng nhập họ tên, email, số điện thoại và địa chỉ",
	"error.payment_method_invalid":   "Phương thức thanh toán không hợp lệ",
	"error.order_status_invalid":     "Trạng thái đơn hàng không hợp lệ",
	"error.payment_status_invalid":   "Trạng thái thanh toán không hợp lệ",
	"error.product_not_found":        "Không tìm thấy sản phẩm",
	"error.product_not_available":    "Sản phẩm đã ngừng bán",
	"error.insufficient_stock":       "Sản phẩm %s không đủ hàng",
	"error.discount_invalid_code":    "Mã giảm giá không hợp lệ",
	"error.discount_not_started":     "Mã giảm giá chưa có hiệu lực",
	"error.discount_expired":         "Mã giảm giá đã hết hạn",
	"error.discount_below_min":       "Đơn hàng chưa đạt giá trị tối thiểu của mã giảm giá",
	"error.discount_limit":           "Mã giảm giá đã hết lượt sử dụng",
	"error.discount_payload_invalid": "Thông tin mã giảm giá không hợp lệ",
	"error.discount_code_exists":     "Mã giảm giá đã tồn tại",
	"error.discount_not_found":       "Không tìm thấy mã giảm giá",
	"error.discount_fetch_failed":    "Không thể tải mã giảm giá",
	"error.discount_save_failed":     "Không thể lưu mã giảm giá",
	"error.discount_delete_failed":   "Không thể xóa mã giảm giá",
	"error.payment_amount_invalid":   "Số tiền thanh toán trực tuyến phải lớn hơn 0",
	"error.payment_amount_mismatch":  "Số tiền thanh toán không khớp với đơn hàng",
	"error.gateway_not_configured":   "Chưa cấu hình cổng thanh toán",
	"error.invalid_signature":        "Chữ ký thanh toán không hợp lệ",
	"error.callback_invalid":         "Dữ liệu phản hồi thanh toán không hợp lệ",
	"error.payment_callback_failed":  "Không thể xử lý phản hồi thanh toán",
	"error.order_not_found":          "Không tìm thấy đơn hàng",
	"error.order_create_failed":      "Không thể tạo đơn hàng",
	"error.order_fetch_failed":       "Không thể tải đơn hàng",
	"error.order_update_failed":      "Không thể cập nhật đơn hàng",
	"error.cart_quantity_invalid":    "Số lượng không hợp lệ",
	"error.cart_item_not_found":      "Không tìm thấy sản phẩm trong giỏ",
	"error.cart_fetch_failed":        "Không thể tải giỏ hàng",
	"error.cart_update_failed":       "Không thể cập nhật giỏ hàng",
	"error.permission_fetch_failed":  "Không thể tải quyền truy cập",
	"message.payment_success":        "Thanh toán thành công",
	"message.payment_failed":         "Thanh toán thất bại",
}

// messagesEN 英语消息
var messagesEN = map[string]string{
	"error.bad_request":              "Bad request",
	"error.internal":                 "Internal server error",
	"error.not_found":                "Resource not found",
	"error.unauthorized":             "Unauthorized",
	"error.forbidden":                "Forbidden",
	"error.jwt_secret_missing":       "JWT secret is not configured",
	"error.token_invalid":            "Token is invalid or expired",
	"error.token_revoked":            "Token has been revoked, please log in again",
	"error.auth_header_missing":      "Authorization header is missing",
	"error.auth_header_invalid":      "Authorization header is invalid",
	"error.user_id_invalid":          "Invalid user id",
	"error.user_id_type_invalid":     "Invalid user id type",
	"error.admin_id_invalid":         "Invalid admin id",
	"error.admin_id_type_invalid":    "Invalid admin id type",
	"error.rate_limit_unavailable":   "Rate limiter is unavailable",
	"error.rate_limited":             "Too many requests, retry in %d seconds",
	"error.login_too_many":           "Too many login attempts, retry in %d seconds",
	"error.checkout_too_many":        "Too many checkout attempts, retry in %d seconds",
	"error.invalid_credentials":      "Invalid credentials",
	"error.password_invalid":         "Password must be at least 8 characters",
	"error.user_disabled":            "Account is disabled",
	"error.user_exists":              "Email is already registered",
	"error.invalid_email":            "Invalid email address",
	"error.login_failed":             "Login failed",
	"error.register_failed":          "Registration failed",
	"error.captcha_required":         "Captcha is required",
	"error.captcha_invalid":          "Captcha is invalid",
	"error.captcha_config_invalid":   "Captcha configuration is invalid",
	"error.captcha_generate_failed":  "Failed to generate captcha",
	"error.checkout_items_empty":     "No items to check out",
	"error.cart_empty":               "Cart is empty",
	"error.invalid_order_item":       "Invalid order item",
	"error.customer_info_required":   "Name, email, phone and address are required",
	"error.payment_method_invalid":   "Invalid payment method",
	"error.order_status_invalid":     "Invalid order status",
	"error.payment_status_invalid":   "Invalid payment status",
	"error.product_not_found":        "Product not found",
	"error.product_not_available":    "Product is not available",
	"error.insufficient_stock":       "Insufficient stock for %s",
	"error.discount_invalid_code":    "Invalid discount code",
	"error.discount_not_started":     "Discount code is not active yet",
	"error.discount_expired":         "Discount code has expired",
	"error.discount_below_min":       "Order does not meet the discount minimum",
	"error.discount_limit":           "Discount code usage limit reached",
	"error.discount_payload_invalid": "Invalid discount payload",
	"error.discount_code_exists":     "Discount code already exists",
	"error.discount_not_found":       "Discount not found",
	"error.discount_fetch_failed":    "Failed to fetch discounts",
	"error.discount_save_failed":     "Failed to save discount",
	"error.discount_delete_failed":   "Failed to delete discount",
	"error.payment_amount_invalid":   "Online payment amount must be positive",
	"error.payment_amount_mismatch":  "Payment amount does not match the order",
	"error.gateway_not_configured":   "Payment gateway is not configured",
	"error.invalid_signature":        "Invalid payment signature",
	"error.callback_invalid":         "Invalid payment callback",
	"error.payment_callback_failed":  "Failed to process payment callback",
	"error.order_not_found":          "Order not found",
	"error.order_create_failed":      "Failed to create order",
	"error.order_fetch_failed":       "Failed to fetch orders",
	"error.order_update_failed":      "Failed to update order",
	"error.cart_quantity_invalid":    "Invalid quantity",
	"error.cart_item_not_found":      "Cart item not found",
	"error.cart_fetch_failed":        "Failed to fetch cart",
	"error.cart_update_failed":       "Failed to update cart",
	"error.permission_fetch_failed":  "Failed to fetch permissions",
	"message.payment_success":        "Payment successful",
	"message.payment_failed":         "Payment failed",
}

// messagesZH 简体中文消息
var messagesZH = map[string]string{
	"error.bad_request":              "请求参数错误",
	"error.internal":                 "服务器内部错误",
	"error.not_found":                "资源不存在",
	"error.unauthorized":             "未登录或登录已失效",
	"error.forbidden":                "无权访问",
	"error.jwt_secret_missing":       "JWT 密钥未配置",
	"error.token_invalid":            "令牌无效或已过期",
	"error.token_revoked":            "令牌已失效，请重新登录",
	"error.auth_header_missing":      "缺少认证信息",
	"error.auth_header_invalid":      "认证信息格式错误",
	"error.user_id_invalid":          "用户标识无效",
	"error.user_id_type_invalid":     "用户标识类型错误",
	"error.admin_id_invalid":         "管理员标识无效",
	"error.admin_id_type_invalid":    "管理员标识类型错误",
	"error.rate_limit_unavailable":   "限流服务不可用",
	"error.rate_limited":             "请求过于频繁，请 %d 秒后再试",
	"error.login_too_many":           "登录尝试过多，请 %d 秒后再试",
	"error.checkout_too_many":        "下单过于频繁，请 %d 秒后再试",
	"error.invalid_credentials":      "账号或密码错误",
	"error.password_invalid":         "密码至少需要 8 位",
	"error.user_disabled":            "账号已被禁用",
	"error.user_exists":              "邮箱已被注册",
	"error.invalid_email":            "邮箱格式错误",
	"error.login_failed":             "登录失败",
	"error.register_failed":          "注册失败",
	"error.captcha_required":         "请完成验证码",
	"error.captcha_invalid":          "验证码错误",
	"error.captcha_config_invalid":   "验证码配置无效",
	"error.captcha_generate_failed":  "生成验证码失败",
	"error.checkout_items_empty":     "请选择要购买的商品",
	"error.cart_empty":               "购物车为空",
	"error.invalid_order_item":       "商品信息无效",
	"error.customer_info_required":   "请填写姓名、邮箱、电话和地址",
	"error.payment_method_invalid":   "支付方式无效",
	"error.order_status_invalid":     "订单状态无效",
	"error.payment_status_invalid":   "支付状态无效",
	"error.product_not_found":        "商品不存在",
	"error.product_not_available":    "商品已下架",
	"error.insufficient_stock":       "%s 库存不足",
	"error.discount_invalid_code":    "折扣码无效",
	"error.discount_not_started":     "折扣码尚未生效",
	"error.discount_expired":         "折扣码已过期",
	"error.discount_below_min":       "订单金额未达到折扣最低要求",
	"error.discount_limit":           "折扣码使用次数已达上限",
	"error.discount_payload_invalid": "折扣参数无效",
	"error.discount_code_exists":     "折扣码已存在",
	"error.discount_not_found":       "折扣码不存在",
	"error.discount_fetch_failed":    "获取折扣码失败",
	"error.discount_save_failed":     "保存折扣码失败",
	"error.discount_delete_failed":   "删除折扣码失败",
	"error.payment_amount_invalid":   "在线支付金额必须大于零",
	"error.payment_amount_mismatch":  "支付金额与订单不一致",
	"error.gateway_not_configured":   "支付网关未配置",
	"error.invalid_signature":        "支付回调签名无效",
	"error.callback_invalid":         "支付回调参数无效",
	"error.payment_callback_failed":  "处理支付回调失败",
	"error.order_not_found":          "订单不存在",
	"error.order_create_failed":      "创建订单失败",
	"error.order_fetch_failed":       "获取订单失败",
	"error.order_update_failed":      "更新订单失败",
	"error.cart_quantity_invalid":    "商品数量无效",
	"error.cart_item_not_found":      "购物车项不存在",
	"error.cart_fetch_failed":        "获取购物车失败",
	"error.cart_update_failed":       "更新购物车失败",
	"error.permission_fetch_failed":  "获取权限失败",
	"message.payment_success":        "支付成功",
	"message.payment_failed":         "支付失败",
}

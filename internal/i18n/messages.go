package i18n

var messages = map[string]map[string]string{
	LocaleZhCN: {
		"error.bad_request":       "请求参数错误",
		"error.unauthorized":      "未登录或登录已失效",
		"error.forbidden":         "无权访问",
		"error.not_found":         "资源不存在",
		"error.too_many_requests": "请求过于频繁，请稍后再试",
		"error.internal_error":    "服务器内部错误",

		"error.token_invalid":           "登录凭证无效",
		"error.login_invalid":           "邮箱或密码错误",
		"error.user_disabled":           "账号已被禁用",
		"error.email_invalid":           "邮箱格式不正确",
		"error.email_exists":            "邮箱已被使用",
		"error.password_weak":           "密码强度不足",
		"error.password_min_length":     "密码长度至少 %d 位",
		"error.password_max_length":     "密码不能超过 %d 字节",
		"error.password_require_upper":  "密码需包含大写字母",
		"error.password_require_lower":  "密码需包含小写字母",
		"error.password_require_number": "密码需包含数字",
		"error.role_unsupported":        "不支持的用户角色",
		"error.role_invalid":            "角色名称不合法",
		"error.role_immutable":          "内置角色不可修改",
		"error.policy_invalid":          "策略参数不合法",
		"error.user_not_found":          "用户不存在",
		"error.user_id_invalid":         "用户标识无效",
		"error.auth_header_missing":     "缺少 Authorization 请求头",
		"error.auth_header_invalid":     "Authorization 格式错误",
		"error.token_revoked":           "登录凭证已失效，请重新登录",
		"error.jwt_secret_missing":      "服务端未配置 JWT 密钥",
		"error.rate_limit_unavailable":  "限流服务暂不可用",
		"error.login_rate_limited":      "登录尝试过多，请 %d 秒后再试",

		"error.vendor_not_found":           "供应商不存在",
		"error.vendor_not_resolved":        "当前账号未关联供应商",
		"error.vendor_reg_no_exists":       "供应商注册编号已存在",
		"error.contact_not_found":          "联系人不存在",
		"error.contact_exists":             "该用户已关联供应商",
		"error.product_not_found":          "物资不存在",
		"error.driver_not_found":           "司机不存在",
		"error.driver_exists":              "司机邮箱或手机号已存在",
		"error.mission_not_found":          "任务不存在",
		"error.vendor_mission_not_found":   "供应商任务关系不存在",
		"error.vendor_mission_exists":      "供应商已承接该任务",
		"error.cargo_not_found":            "货物不存在",
		"error.cargo_exists":               "该任务已配置货物",
		"error.cargo_item_not_found":       "货物明细不存在或不属于该任务",
		"error.cargo_item_duplicate":       "货物明细重复",
		"error.truck_not_found":            "车辆不存在",
		"error.truck_capacity_invalid":     "车辆容量不能为负数",
		"error.assignment_not_found":       "承运记录不存在",
		"error.assignment_exists":          "该车辆已承运此任务",
		"error.date_range_invalid":         "结束日期不能早于开始日期",
		"error.region_not_found":           "区域不存在",
		"error.region_exists":              "区域名称已存在",
		"error.operation_region_not_found": "作业区域不存在",
		"error.operation_region_exists":    "供应商已在该区域作业",
		"error.document_required":          "请选择上传文件",
		"error.document_not_found":         "文件不存在",
		"error.document_too_large":         "文件大小不能超过 10MB",
		"error.document_extension":         "仅支持 pdf、doc、docx、jpg、png 文件",

		"error.allocation_forbidden":         "车辆不属于当前供应商或任务未签约",
		"error.allocation_no_cargo":          "任务尚未配置货物",
		"error.allocation_quantity_invalid":  "分配数量必须为正整数",
		"error.allocation_over":              "分配数量超过剩余数量",
		"error.allocation_capacity":          "装载数量超过车辆容量",
		"error.allocation_validation_failed": "货物分配校验未通过",
	},
	LocaleEnUS: {
		"error.bad_request":       "Invalid request parameters",
		"error.unauthorized":      "Not signed in or session expired",
		"error.forbidden":         "Access denied",
		"error.not_found":         "Resource not found",
		"error.too_many_requests": "Too many requests, please try again later",
		"error.internal_error":    "Internal server error",

		"error.token_invalid":           "Invalid credentials token",
		"error.login_invalid":           "Incorrect email or password",
		"error.user_disabled":           "Account is disabled",
		"error.email_invalid":           "Invalid email address",
		"error.email_exists":            "Email is already in use",
		"error.password_weak":           "Password is too weak",
		"error.password_min_length":     "Password must be at least %d characters",
		"error.password_max_length":     "Password must not exceed %d bytes",
		"error.password_require_upper":  "Password must contain an uppercase letter",
		"error.password_require_lower":  "Password must contain a lowercase letter",
		"error.password_require_number": "Password must contain a digit",
		"error.role_unsupported":        "Unsupported user role",
		"error.role_invalid":            "Invalid role name",
		"error.role_immutable":          "Built-in roles cannot be modified",
		"error.policy_invalid":          "Invalid policy parameters",
		"error.user_not_found":          "User not found",
		"error.user_id_invalid":         "Invalid user identifier",
		"error.auth_header_missing":     "Missing Authorization header",
		"error.auth_header_invalid":     "Malformed Authorization header",
		"error.token_revoked":           "Session revoked, please sign in again",
		"error.jwt_secret_missing":      "JWT secret is not configured",
		"error.rate_limit_unavailable":  "Rate limiter unavailable",
		"error.login_rate_limited":      "Too many login attempts, retry in %d seconds",

		"error.vendor_not_found":           "Vendor not found",
		"error.vendor_not_resolved":        "Current account is not linked to a vendor",
		"error.vendor_reg_no_exists":       "Vendor registration number already exists",
		"error.contact_not_found":          "Contact not found",
		"error.contact_exists":             "User is already linked to a vendor",
		"error.product_not_found":          "Product not found",
		"error.driver_not_found":           "Driver not found",
		"error.driver_exists":              "Driver email or phone number already exists",
		"error.mission_not_found":          "Mission not found",
		"error.vendor_mission_not_found":   "Vendor mission not found",
		"error.vendor_mission_exists":      "Vendor is already contracted to this mission",
		"error.cargo_not_found":            "Cargo not found",
		"error.cargo_exists":               "Mission already has cargo",
		"error.cargo_item_not_found":       "Cargo item not found in this mission",
		"error.cargo_item_duplicate":       "Duplicate cargo item",
		"error.truck_not_found":            "Truck not found",
		"error.truck_capacity_invalid":     "Truck capacity cannot be negative",
		"error.assignment_not_found":       "Assignment not found",
		"error.assignment_exists":          "Truck is already assigned to this mission",
		"error.date_range_invalid":         "End date cannot be before start date",
		"error.region_not_found":           "Region not found",
		"error.region_exists":              "Region name already exists",
		"error.operation_region_not_found": "Operation region not found",
		"error.operation_region_exists":    "Vendor already operates in this region",
		"error.document_required":          "Please choose a file to upload",
		"error.document_not_found":         "Document not found",
		"error.document_too_large":         "File size exceeds the 10MB limit",
		"error.document_extension":         "Only pdf, doc, docx, jpg and png files are allowed",

		"error.allocation_forbidden":         "Truck is not owned by your vendor or mission is not contracted",
		"error.allocation_no_cargo":          "Mission has no cargo",
		"error.allocation_quantity_invalid":  "Quantity must be a positive integer",
		"error.allocation_over":              "Requested quantity exceeds remaining quantity",
		"error.allocation_capacity":          "Requested quantity exceeds truck capacity",
		"error.allocation_validation_failed": "Cargo allocation validation failed",
	},
}

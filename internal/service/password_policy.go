package service

import (
	"unicode"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
)

// bcrypt 只处理前 72 字节，超出部分直接拒绝
const maxPasswordBytes = 72

// passwordPolicyError 携带 i18n 键与参数，匹配 ErrWeakPassword
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string { return e.key }

func (e passwordPolicyError) Is(target error) bool { return target == ErrWeakPassword }

// Key 返回 i18n 文案键
func (e passwordPolicyError) Key() string { return e.key }

// Args 返回文案参数
func (e passwordPolicyError) Args() []interface{} { return e.args }

type passwordRule struct {
	enabled bool
	ok      func(password string) bool
	err     passwordPolicyError
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if len(password) > maxPasswordBytes {
		return passwordPolicyError{key: "error.password_max_length", args: []interface{}{maxPasswordBytes}}
	}
	rules := []passwordRule{
		{
			enabled: policy.MinLength > 0,
			ok:      func(p string) bool { return len([]rune(p)) >= policy.MinLength },
			err:     passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}},
		},
		{enabled: policy.RequireUpper, ok: containsRune(unicode.IsUpper), err: passwordPolicyError{key: "error.password_require_upper"}},
		{enabled: policy.RequireLower, ok: containsRune(unicode.IsLower), err: passwordPolicyError{key: "error.password_require_lower"}},
		{enabled: policy.RequireNumber, ok: containsRune(unicode.IsDigit), err: passwordPolicyError{key: "error.password_require_number"}},
	}
	for _, rule := range rules {
		if rule.enabled && !rule.ok(password) {
			return rule.err
		}
	}
	return nil
}

func containsRune(match func(rune) bool) func(string) bool {
	return func(password string) bool {
		for _, r := range password {
			if match(r) {
				return true
			}
		}
		return false
	}
}

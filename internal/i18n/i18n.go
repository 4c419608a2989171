package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"

	// DefaultLocale 未识别语言时的回退语言
	DefaultLocale = LocaleZhCN
)

var (
	supportedTags = []language.Tag{language.SimplifiedChinese, language.AmericanEnglish}
	tagLocales    = []string{LocaleZhCN, LocaleEnUS}
	matcher       = language.NewMatcher(supportedTags)
)

// ResolveLocale 按 ?lang、X-Locale、Accept-Language 顺序解析请求语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return NormalizeLocale(lang)
	}
	if lang := strings.TrimSpace(c.GetHeader("X-Locale")); lang != "" {
		return NormalizeLocale(lang)
	}
	if accept := strings.TrimSpace(c.GetHeader("Accept-Language")); accept != "" {
		return NormalizeLocale(accept)
	}
	return DefaultLocale
}

// NormalizeLocale 将任意语言标记映射到支持的语言
func NormalizeLocale(raw string) string {
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(tagLocales) {
		return DefaultLocale
	}
	return tagLocales[index]
}

// T 翻译文案键，缺失时依次回退默认语言与键本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带参数的文案
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

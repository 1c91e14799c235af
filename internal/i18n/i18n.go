package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocalePtBR = "pt-BR"
	LocaleEn   = "en"
	LocaleZhCN = "zh-CN"
)

// DefaultLocale 未指定语言时使用葡语
const DefaultLocale = LocalePtBR

var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
	language.SimplifiedChinese,
}

var matcher = language.NewMatcher(supported)

var localeByIndex = []string{LocalePtBR, LocaleEn, LocaleZhCN}

// ResolveLocale 依次读取 ?lang= 与 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Match(lang)
	}
	return Match(c.GetHeader("Accept-Language"))
}

// Match 将任意语言标签归一到支持的语言
func Match(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return localeByIndex[index]
}

// T 翻译 key，缺失时回退葡语，再缺失返回 key 本身
func T(locale, key string) string {
	if msgs, ok := messages[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译后按参数格式化
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if !strings.Contains(msg, "%") {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

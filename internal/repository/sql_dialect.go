package repository

import (
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// likeOperatorByDialect postgres 使用 ILIKE，sqlite 的 LIKE 对 ASCII 已不区分大小写。
func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// applyContains 为列追加不区分大小写的子串匹配，空值时不加条件。
func applyContains(query *gorm.DB, column, value string) *gorm.DB {
	value = strings.TrimSpace(value)
	if query == nil || value == "" {
		return query
	}
	operator := likeOperatorByDialect(dbDialectName(query))
	return query.Where(fmt.Sprintf("%s %s ?", column, operator), containsPattern(value))
}

// containsPattern 生成 %value% 形式的匹配串
func containsPattern(value string) string {
	return "%" + strings.TrimSpace(value) + "%"
}

// onlyDigits 去掉所有非数字字符
func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package repository

import (
	"strings"

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

// containsCondition 构建忽略大小写的模糊匹配条件，兼容 sqlite 与 postgres。
func containsCondition(db *gorm.DB, column, keyword string) (string, string) {
	return containsConditionByDialect(dbDialectName(db), column, keyword)
}

func containsConditionByDialect(dialect, column, keyword string) (string, string) {
	return column + " " + likeOperatorByDialect(dialect) + " ? ESCAPE '\\'", "%" + escapeLike(keyword) + "%"
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		// sqlite 的 LIKE 对 ASCII 默认不区分大小写
		return "LIKE"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义用户输入中的通配符
func escapeLike(keyword string) string {
	return likeEscaper.Replace(strings.TrimSpace(keyword))
}

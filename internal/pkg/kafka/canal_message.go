package kafka

import (
	"strconv"

	"github.com/goccy/go-json"
)

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 存储变更前的数据
	Old []map[string]interface{} `json:"old"`

	// 字段类型元数据
	SqlType   map[string]int    `json:"sqlType"`   // JDBC 类型 ID
	MysqlType map[string]string `json:"mysqlType"` // MySQL 类型描述
}

// canal 消息类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// StrToUint64 canal 以字符串传递列值，兼容数字类型
func StrToUint64(v interface{}) uint64 {
	switch val := v.(type) {
	case string:
		id, _ := strconv.ParseUint(val, 10, 64)
		return id
	case float64:
		return uint64(val)
	case json.Number:
		id, _ := strconv.ParseUint(val.String(), 10, 64)
		return id
	default:
		return 0
	}
}

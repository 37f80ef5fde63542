package snowflake

import (
	"time"

	sf "github.com/bwmarrin/snowflake"
)

// snowflake 算法需要维护序列号状态，全局单例节点保证 ID 唯一
var node *sf.Node

// Init 初始化雪花算法节点
// startTime 格式 "2006-01-02"；machineID 在多实例部署时必须各不相同
func Init(startTime string, machineID int64) (err error) {
	var st time.Time
	st, err = time.Parse("2006-01-02", startTime)
	if err != nil {
		return
	}
	sf.Epoch = st.UnixNano() / 1000000

	node, err = sf.NewNode(machineID)
	return
}

// GenID 生成全局唯一 ID
func GenID() int64 {
	return node.Generate().Int64()
}

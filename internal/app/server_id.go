package app

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// InstanceID 服务实例标识，用于日志与多实例排查。
// 部署方可通过 SIM_SERVER_ID 固定标识，否则按 主机名-短uuid 生成。
func InstanceID() string {
	if id := os.Getenv("SIM_SERVER_ID"); id != "" {
		return id
	}

	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])
}

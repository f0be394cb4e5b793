package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	SessionMemory = "memory"
	SessionRedis  = "redis"

	StorageLocal = "local"
	StorageMinio = "minio"
)

// 项目XP的来源事件（上游平台中 originEventId == 20 对应模块项目）
const ModuleOriginEventID = 20

const MimeSVG = "image/svg+xml"

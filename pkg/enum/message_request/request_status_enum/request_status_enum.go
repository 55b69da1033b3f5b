package request_status_enum

// 消息请求状态，pending 之后只会进入 accepted 或 declined，两者均为终态
const (
	PENDING  = "pending"
	ACCEPTED = "accepted"
	DECLINED = "declined"
)

package message_type_enum

const (
	TEXT  = "text"
	IMAGE = "image"
	FILE  = "file"
)

// IsValid 判断消息类型是否合法
func IsValid(t string) bool {
	switch t {
	case TEXT, IMAGE, FILE:
		return true
	}
	return false
}

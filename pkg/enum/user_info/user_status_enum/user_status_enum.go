package user_status_enum

const (
	NORMAL  = 0
	DISABLE = 1
)

package respond

// UserBriefRespond 嵌在消息请求和会话列表里的用户摘要
type UserBriefRespond struct {
	Uuid     string `json:"uuid"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// UserProfileRespond 用户主页
// 使用位置:
//   - internal/service/user/service.go: GetProfile
type UserProfileRespond struct {
	Uuid           string `json:"uuid"`
	Username       string `json:"username"`
	Nickname       string `json:"nickname"`
	Avatar         string `json:"avatar"`
	Bio            string `json:"bio"`
	ExploringCount int    `json:"exploringCount"`
	ExplorersCount int    `json:"explorersCount"`
	CreatedAt      string `json:"createdAt"`
}

// RegisterRespond 注册响应
type RegisterRespond struct {
	Uuid      string `json:"uuid"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"createdAt"`
}

// LoginRespond 登录响应
// 使用位置:
//   - internal/service/user/service.go: Login
type LoginRespond struct {
	Uuid         string `json:"uuid"`
	Username     string `json:"username"`
	Nickname     string `json:"nickname"`
	Avatar       string `json:"avatar"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

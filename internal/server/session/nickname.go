package session

import "math/rand/v2"

// 昵称词库
var (
	adjectives = []string{
		"沉着的", "大胆的", "狡猾的", "谨慎的", "幸运的",
		"固执的", "冷静的", "豪爽的", "机智的", "低调的",
	}

	nouns = []string{
		"主公", "军师", "将军", "谋士", "骑士",
		"船长", "赌徒", "棋手", "猎人", "旅人",
	}
)

// GenerateNickname 生成随机昵称
func GenerateNickname() string {
	return adjectives[rand.IntN(len(adjectives))] + nouns[rand.IntN(len(nouns))]
}

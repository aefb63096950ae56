package service

import "math"

// interactionScore 交互通道：ln(1 + 2*回复数 + 转发数)
func interactionScore(replyCount, repostCount int) float64 {
	return math.Log(float64(1 + 2*replyCount + repostCount))
}

// hashtagScore 标签通道：计数不超过 10 恒为 1，超出部分对数增长
func hashtagScore(count int) float64 {
	if count > 10 {
		return 1 + math.Log(float64(1+count-10))
	}
	return 1
}

// keywordScore 关键词通道：零计数得 0，否则 1 + ln(1 + 计数)
func keywordScore(count int) float64 {
	if count == 0 {
		return 0
	}
	return 1 + math.Log(float64(1+count))
}

package dto

// RecommendQueryDTO 四个查询参数全部必填，缺一即 400
type RecommendQueryDTO struct {
	UserID  string `form:"user_id" binding:"required"`
	Type    string `form:"type" binding:"required"`
	Phrase  string `form:"phrase" binding:"required"`
	Hashtag string `form:"hashtag" binding:"required"`
}

type RecommendationDTO struct {
	UserID           string `json:"user_id"`
	ScreenName       string `json:"screen_name"`
	Description      string `json:"description"`
	ContactTweetText string `json:"contact_tweet_text"`
}

// RecommendResponse 两个静态标识字段来自配置，原样透传
type RecommendResponse struct {
	TeamID           string               `json:"TEAMID"`
	TeamAWSAccountID string               `json:"TEAM_AWS_ACCOUNT_ID"`
	Recommendations  []*RecommendationDTO `json:"recommendations"`
}

package ai

// analyzeRequest 远程分析接口请求结构
type analyzeRequest struct {
	Text string `json:"text"`
	User string `json:"user"`
}

// analyzeResponse 远程分析接口响应结构
type analyzeResponse struct {
	Sentiment *Sentiment `json:"sentiment"`
	Entities  []Entity   `json:"entities"`
	MockData  bool       `json:"mock_data"`
}

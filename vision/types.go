package vision

// Image Analysis 4.0 response (synchronous path)

type analyzeResponse struct {
	ReadResult *readResult `json:"readResult"`
}

type readResult struct {
	Content string  `json:"content"`
	Blocks  []block `json:"blocks"`
}

type block struct {
	Lines []line `json:"lines"`
}

type line struct {
	Text string `json:"text"`
}

// Read 3.2 operation response (asynchronous path)

type readOperation struct {
	Status        string         `json:"status"`
	AnalyzeResult *analyzeResult `json:"analyzeResult"`
	Error         *readError     `json:"error"`
}

type analyzeResult struct {
	ReadResults []readPage `json:"readResults"`
}

type readPage struct {
	Lines []line `json:"lines"`
}

type readError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

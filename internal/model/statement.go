package model

// GenerateResult 单张对账单生成结果
type GenerateResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
}

// ProcessResult 批量生成对账单的结果
type ProcessResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	GeneratedCount int    `json:"generated_count"`
	SkippedCount   int    `json:"skipped_count"`
	OutputPath     string `json:"output_path"`
}

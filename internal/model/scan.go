package model

// FileDiagnostic 单个文件的校验问题（错误或警告）
type FileDiagnostic struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// ScanResult 扫描并校验原始数据的结果
type ScanResult struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	TotalFiles int              `json:"total_files"`
	ValidFiles int              `json:"valid_files"`
	Errors     []FileDiagnostic `json:"errors"`
	Warnings   []FileDiagnostic `json:"warnings"`
	Items      []Record         `json:"items"`
}

// SourceFile 待解析的 Excel 文件及其客户类型
type SourceFile struct {
	Path         string
	CustomerType string
}

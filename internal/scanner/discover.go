package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/orcapzh/ana/internal/model"
)

// IsExcelFile 判断是否为待扫描的 Excel 文件（跳过 ~$ 临时文件）
func IsExcelFile(name string) bool {
	if strings.HasPrefix(name, "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xls" || ext == ".xlsx"
}

// Discover 扫描原始数据目录
// 目录结构: 根目录 -> 客户类型(一级子目录，如 现金客户/月结客户) -> ... -> 文件；
// 根目录下直接放置的文件归入默认类型
func Discover(root string) ([]model.SourceFile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var files []model.SourceFile
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if !entry.IsDir() {
			if IsExcelFile(entry.Name()) {
				files = append(files, model.SourceFile{Path: path, CustomerType: model.DefaultCustomerType})
			}
			continue
		}

		customerType := entry.Name()
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				// 无法读取的子目录跳过
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !IsExcelFile(d.Name()) {
				return nil
			}
			files = append(files, model.SourceFile{Path: p, CustomerType: customerType})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

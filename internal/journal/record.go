package journal

import "strings"

// VisitRecord：一次访问记录，追加后不可修改
// 背景：JSON 结构与浏览器原型写入 local storage 的格式一致，旧数据可直接导入。
// 约束：任何字段缺失均按零值处理；Photo 为 data URL 文本，可为空。
type VisitRecord struct {
	Country  string   `json:"country"`
	Region   string   `json:"region"`
	Souvenir Souvenir `json:"souvenir"`
	Answer   string   `json:"answer"`
	Photo    string   `json:"photo,omitempty"`
}

// HasPhoto：是否携带照片
func (r VisitRecord) HasPhoto() bool { return strings.TrimSpace(r.Photo) != "" }

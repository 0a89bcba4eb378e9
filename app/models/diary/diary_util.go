package diary

import "strings"

// Text 用于打标签和分析的全文：标题与正文
func (d *Diary) Text() string {
	if d.Content == nil || *d.Content == "" {
		return d.Title
	}
	return strings.TrimSpace(d.Title + "\n" + *d.Content)
}

// TagIDs 已关联的标签 ID
func (d *Diary) TagIDs() []uint64 {
	ids := make([]uint64, 0, len(d.DiaryTags))
	for _, dt := range d.DiaryTags {
		ids = append(ids, dt.TagID)
	}
	return ids
}

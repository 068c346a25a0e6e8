package tag

// CreateTagRequest 创建标签
type CreateTagRequest struct {
	Name string `json:"name" validate:"notblank,max=50"`
}

// UpdateTagRequest 重命名标签
type UpdateTagRequest struct {
	Name *string `json:"name" validate:"omitempty,notblank,max=50"`
}

// SetTagsRequest 替换文章的标签集合
type SetTagsRequest struct {
	TagIDs []uint `json:"tag_ids"`
}

package httpdto

// PhotoPresignRequest is used for POST /upload/presign
type PhotoPresignRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required"`
	PhotoType   string `json:"photo_type" binding:"required"` // FACE or FULL_BODY
}

// PhotoPresignResponse is returned with the presigned upload target
type PhotoPresignResponse struct {
	UploadURL string            `json:"upload_url"`
	ObjectKey string            `json:"object_key"`
	Headers   map[string]string `json:"headers"`
}

// CompleteUploadRequest is used for POST /upload/complete
type CompleteUploadRequest struct {
	ObjectKey string `json:"object_key" binding:"required"`
	PhotoType string `json:"photo_type" binding:"required"`
}

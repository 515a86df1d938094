package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const MimeImage = "image/"

var AllowedPhotoExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".heic"}

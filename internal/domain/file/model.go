package file

import "time"

// File is a stored attachment. Only the object path is kept here; bytes
// live in MinIO.
type File struct {
	FID        uint      `gorm:"primaryKey;column:f_id;autoIncrement"`
	Name       string    `gorm:"size:200;not null"`
	Format     string    `gorm:"size:20"`
	MinIOPath  string    `gorm:"column:minio_path;size:300;not null"`
	UploaderID uint      `gorm:"column:uploader_id"`
	CreatedAt  time.Time `gorm:"column:create_at;autoCreateTime"`
}

func (File) TableName() string {
	return "files"
}

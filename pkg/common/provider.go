// File: pkg/common/provider.go
package common

type Provider string

const (
	AWS   Provider = "aws"
	GCP   Provider = "gcp"
	MinIO Provider = "minio"
)

func (p Provider) String() string {
	return string(p)
}

// Package s3 предоставляет загрузку аудиофайлов из S3-совместимого хранилища
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Scheme префикс ссылок на объекты S3
const Scheme = "s3://"

// ErrInvalidURL возвращается для ссылок не вида s3://bucket/key
var ErrInvalidURL = errors.New("неверная ссылка S3")

// Config содержит настройки для S3
type Config struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// Downloader обертка для S3 downloader
type Downloader struct {
	s3Downloader *s3manager.Downloader
}

// NewDownloader создает новый S3 downloader
func NewDownloader(config *Config) (*Downloader, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
	}

	// Без ключей используется стандартная цепочка учетных данных AWS
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		)
	}

	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return &Downloader{
		s3Downloader: s3manager.NewDownloader(sess),
	}, nil
}

// Download записывает объект в w и возвращает число байт
func (d *Downloader) Download(ctx context.Context, bucket, key string, w io.WriterAt) (int64, error) {
	n, err := d.s3Downloader.DownloadWithContext(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return n, fmt.Errorf("ошибка загрузки из S3: %w", err)
	}
	return n, nil
}

// IsURL проверяет, что ссылка указывает на объект S3
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, Scheme)
}

// ParseURL разбирает ссылку s3://bucket/key
func ParseURL(ref string) (bucket, key string, err error) {
	if !IsURL(ref) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURL, ref)
	}
	parts := strings.SplitN(strings.TrimPrefix(ref, Scheme), "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURL, ref)
	}
	return parts[0], parts[1], nil
}

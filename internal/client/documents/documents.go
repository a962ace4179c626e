// Package documents loads application documents (CVs) from the local file
// system or from S3-compatible object storage.
package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/common"
)

// MaxSize is the largest document accepted.
const MaxSize = 10 << 20

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
)

// S3Config selects the object store used for s3:// sources. Empty fields
// fall back to the AWS SDK defaults (environment, shared config).
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type Loader struct {
	s3cfg S3Config
}

func NewLoader(s3cfg S3Config) *Loader {
	return &Loader{s3cfg: s3cfg}
}

// Load reads the document at src, a local path or s3://bucket/key.
func (l *Loader) Load(ctx context.Context, src string) (models.Document, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return models.Document{}, fmt.Errorf("%w: document path is required", common.ErrorValidation)
	}

	if strings.HasPrefix(src, "s3://") {
		return l.loadS3(ctx, src)
	}
	return loadFile(src)
}

func checkName(name string) (string, error) {
	ct, ok := models.DocumentContentType(name)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a .pdf, .doc or .docx file", common.ErrorValidation, name)
	}
	return ct, nil
}

func loadFile(p string) (models.Document, error) {
	name := filepath.Base(p)
	ct, err := checkName(name)
	if err != nil {
		return models.Document{}, err
	}

	f, err := os.Open(p)
	if err != nil {
		return models.Document{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return models.Document{}, fmt.Errorf("read %s: %w", name, err)
	}
	return models.Document{Name: name, ContentType: ct, Data: data}, nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(src string) (bucket, key string, err error) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: invalid S3 location %q", common.ErrorValidation, src)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("%w: S3 location %q needs a bucket and a key", common.ErrorValidation, src)
	}
	return u.Host, key, nil
}

func (l *Loader) loadS3(ctx context.Context, src string) (models.Document, error) {
	bucket, key, err := ParseS3URL(src)
	if err != nil {
		return models.Document{}, err
	}
	name := path.Base(key)
	ct, err := checkName(name)
	if err != nil {
		return models.Document{}, err
	}

	client, err := l.s3Client(ctx)
	if err != nil {
		return models.Document{}, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return models.Document{}, fmt.Errorf("get %s: %w", src, err)
	}
	defer out.Body.Close()

	data, err := readLimited(out.Body)
	if err != nil {
		return models.Document{}, fmt.Errorf("read %s: %w", src, err)
	}
	return models.Document{Name: name, ContentType: ct, Data: data}, nil
}

func (l *Loader) s3Client(ctx context.Context) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if l.s3cfg.Region != "" {
		opts = append(opts, config.WithRegion(l.s3cfg.Region))
	}
	if l.s3cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(l.s3cfg.AccessKey, l.s3cfg.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if l.s3cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(l.s3cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

var errTooLarge = errors.New("document is larger than 10 MiB")

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, errTooLarge
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: document is empty", common.ErrorValidation)
	}
	return data, nil
}

package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ayush/gastos-api/internal/models"
)

// Report ids look like "2024-03-<uuid>" so the period survives a plain listing.
var reportIDPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ReportID builds the object id for a statement of the given month.
func ReportID(year, month int, unique string) string {
	return fmt.Sprintf("%04d-%02d-%s", year, month, unique)
}

// ParseReportID validates id and extracts its period.
func ParseReportID(id string) (models.Period, bool) {
	m := reportIDPattern.FindStringSubmatch(id)
	if m == nil {
		return models.Period{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return models.Period{}, false
	}
	return models.Period{Year: year, Month: month}, true
}

func reportKey(userID, id string) string {
	return userID + "/" + id + ".csv"
}

// MinioStore keeps CSV statements in a bucket, one prefix per user.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucket: bucket}, nil
}

// Put stores a statement under the user's prefix and returns its size.
func (s *MinioStore) Put(ctx context.Context, userID, id string, data []byte) (int64, error) {
	info, err := s.client.PutObject(ctx, s.bucket, reportKey(userID, id), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv; charset=utf-8"})
	if err != nil {
		return 0, fmt.Errorf("minio put report: %w", err)
	}
	return info.Size, nil
}

// List returns every statement stored for the user.
func (s *MinioStore) List(ctx context.Context, userID string) ([]models.Report, error) {
	reports := []models.Report{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: userID + "/"}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio list reports: %w", obj.Err)
		}
		id := strings.TrimSuffix(path.Base(obj.Key), ".csv")
		period, ok := ParseReportID(id)
		if !ok {
			continue
		}
		reports = append(reports, models.Report{
			ID:        id,
			Year:      period.Year,
			Month:     period.Month,
			Size:      obj.Size,
			CreatedAt: obj.LastModified,
		})
	}
	return reports, nil
}

// Get returns the statement bytes, or ErrNotFound.
func (s *MinioStore) Get(ctx context.Context, userID, id string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, reportKey(userID, id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get report: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("minio read report: %w", err)
	}
	return data, nil
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appConfig "github.com/muhijericho/capstone-topstyle-sub000/config"
)

// ExportInterface is the document-export collaborator: generated reports
// are handed off here, best effort. A failed upload is logged by callers
// and never rolls back the data it was generated from.
type ExportInterface interface {
	UploadReport(name string, content []byte) (string, error)
	GetPresignedURL(key string) (string, error)
}

// S3ExportService stores generated reports in an S3 bucket.
type S3ExportService struct {
	client *s3.Client
	bucket string
}

var exportServiceInstance ExportInterface

// InitExportService initializes the S3-backed export service with AWS
// credentials from configuration.
func InitExportService() (ExportInterface, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)

	exportServiceInstance = &S3ExportService{
		client: client,
		bucket: cfg.AWSExportBucket,
	}

	return exportServiceInstance, nil
}

// GetExportService returns the initialized export service instance
func GetExportService() ExportInterface {
	return exportServiceInstance
}

// SetExportService sets the export service instance (primarily for testing)
func SetExportService(service ExportInterface) {
	exportServiceInstance = service
}

// UploadReport uploads a generated report to S3 and returns its object key.
// Key format: exports/{date}/{name}_{uid}.csv
func (s *S3ExportService) UploadReport(name string, content []byte) (string, error) {
	key := fmt.Sprintf("exports/%s/%s_%s.csv",
		time.Now().Format("2006-01-02"), name, uuid.NewString()[:8])

	_, err := s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to S3: %w", err)
	}

	return key, nil
}

// GetPresignedURL generates a presigned URL for downloading an exported
// report. The URL expires after 1 hour.
func (s *S3ExportService) GetPresignedURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	log.Printf("Generated presigned URL for key %s", key)
	return request.URL, nil
}

// MockExportService is an in-memory export service for testing
type MockExportService struct {
	reports map[string][]byte
	mu      sync.RWMutex
}

// NewMockExportService creates a new mock export service
func NewMockExportService() *MockExportService {
	return &MockExportService{
		reports: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global export service instance
func (m *MockExportService) SetAsMockForTesting() {
	SetExportService(m)
}

// UploadReport stores the report in memory and returns a mock key.
func (m *MockExportService) UploadReport(name string, content []byte) (string, error) {
	key := fmt.Sprintf("exports/mock_%s.csv", name)
	m.mu.Lock()
	m.reports[key] = content
	m.mu.Unlock()
	return key, nil
}

// GetPresignedURL returns a mock URL for a stored report.
func (m *MockExportService) GetPresignedURL(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.reports[key]; !ok {
		return "", fmt.Errorf("report not found: %s", key)
	}
	return "https://mock-bucket.example.com/" + key, nil
}

// Report returns a stored report's content (for test assertions).
func (m *MockExportService) Report(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.reports[key]
	return content, ok
}

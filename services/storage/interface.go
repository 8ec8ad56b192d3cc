package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// MaxImageBytes caps a single package image upload.
const MaxImageBytes = 5 << 20

var (
	ErrUnsupportedImage = errors.New("unsupported image type; use jpeg, png or webp")
	ErrImageTooLarge    = errors.New("image exceeds the 5MB limit")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore keeps package images and hands back URLs usable in a package's img field.
type ImageStore interface {
	UploadImage(ctx context.Context, vendorID, filename, contentType string, r io.Reader) (string, error)
	DeleteImage(ctx context.Context, objectPath string) error
}

// FirebaseImageStore implements ImageStore on the project's Firebase Storage bucket.
type FirebaseImageStore struct {
	client     *storage.Client
	bucketName string
	logger     *zap.Logger
}

// NewFirebaseImageStore creates a storage client from the service account file.
func NewFirebaseImageStore(ctx context.Context, serviceAccountJSONPath, bucketName string, logger *zap.Logger) (*FirebaseImageStore, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("NewFirebaseImageStore: no storage bucket configured")
	}
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(serviceAccountJSONPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &FirebaseImageStore{client: client, bucketName: bucketName, logger: logger}, nil
}

// ImageContentType settles the content type of an upload from the declared type or, failing
// that, the file extension.
func ImageContentType(filename, declared string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if _, ok := allowedImageTypes[ct]; ok {
		return ct, nil
	}
	ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if _, ok := allowedImageTypes[ct]; ok {
		return ct, nil
	}
	return "", ErrUnsupportedImage
}

// ObjectPath names the object for a vendor's upload.
func ObjectPath(vendorID, contentType string) string {
	return path.Join("packages", vendorID, uuid.NewString()+allowedImageTypes[contentType])
}

// PublicURL is the download URL of a public-read object.
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", bucket, url.QueryEscape(objectPath))
}

// UploadImage streams the image into packages/{vendorId}/ with a public-read ACL.
func (s *FirebaseImageStore) UploadImage(ctx context.Context, vendorID, filename, contentType string, r io.Reader) (string, error) {
	ct, err := ImageContentType(filename, contentType)
	if err != nil {
		return "", err
	}
	objectPath := ObjectPath(vendorID, ct)

	w := s.client.Bucket(s.bucketName).Object(objectPath).NewWriter(ctx)
	w.ACL = []storage.ACLRule{{Entity: storage.AllUsers, Role: storage.RoleReader}}
	w.ObjectAttrs.ContentType = ct

	n, err := io.Copy(w, io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		w.Close()
		return "", fmt.Errorf("UploadImage: failed to copy image to storage: %w", err)
	}
	if n > MaxImageBytes {
		w.Close()
		if delErr := s.DeleteImage(ctx, objectPath); delErr != nil {
			s.logger.Warn("failed to remove oversized upload", zap.String("object", objectPath), zap.Error(delErr))
		}
		return "", ErrImageTooLarge
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("UploadImage: failed to close writer: %w", err)
	}

	s.logger.Info("Uploaded package image", zap.String("vendorId", vendorID), zap.String("object", objectPath), zap.Int64("bytes", n))
	return PublicURL(s.bucketName, objectPath), nil
}

// DeleteImage removes an object from the bucket.
func (s *FirebaseImageStore) DeleteImage(ctx context.Context, objectPath string) error {
	if err := s.client.Bucket(s.bucketName).Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("DeleteImage: failed to delete %s: %w", objectPath, err)
	}
	return nil
}

func (s *FirebaseImageStore) Close() error {
	return s.client.Close()
}

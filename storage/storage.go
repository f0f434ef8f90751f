package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"openhouse/models"
)

// ErrInvalidImage marks a payload that is not a base64 image data URI.
var ErrInvalidImage = errors.New("image must be a base64 data URI")

var dataURIPrefix = regexp.MustCompile(`^data:image/(\w+);base64,`)

// Storage writes listing photos to Cloudinary under a single media folder
// and deletes them by key. Objects are publicly readable by URL.
type Storage struct {
	cld    *cloudinary.Cloudinary
	bucket string
}

func New(cloudinaryURL, bucket string) (*Storage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &Storage{cld: cld, bucket: bucket}, nil
}

// ParseImageDataURI splits a data:image/<subtype>;base64 URI into its
// subtype and decoded payload.
func ParseImageDataURI(image string) (string, []byte, error) {
	m := dataURIPrefix.FindStringSubmatch(image)
	if m == nil {
		return "", nil, ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(image[len(m[0]):])
	if err != nil {
		return "", nil, ErrInvalidImage
	}

	return m[1], data, nil
}

// Upload stores a base64-encoded image under a key namespaced by its owner
// and returns the descriptor ads embed. Failures are not retried.
func (s *Storage) Upload(ctx context.Context, ownerID, image string) (*models.Photo, error) {
	subtype, data, err := ParseImageDataURI(image)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s_%s.%s", ownerID, randomKey(), subtype)

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   s.bucket,
		PublicID: key,
	})
	if err != nil {
		return nil, err
	}

	return &models.Photo{
		Bucket:   s.bucket,
		Key:      result.PublicID,
		Location: result.SecureURL,
	}, nil
}

// Delete removes an object by the key returned from Upload.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	return err
}

func randomKey() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "000000"
	}
	return hex.EncodeToString(b)
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/careclinic/clinic-scheduler/internal/config"
)

const (
	maxImageEdge = 1024
	webpQuality  = 85
)

type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(cfg *config.Config) *S3Store {
	client := s3.New(s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	})

	return &S3Store{
		client: client,
		bucket: cfg.S3Bucket,
	}
}

// UploadProductImage resizes the image to fit maxImageEdge, re-encodes it as
// webp and stores it under a key derived from the product id. Returns the
// object key.
func (s *S3Store) UploadProductImage(
	ctx context.Context,
	productID uuid.UUID,
	img image.Image,
) (string, error) {

	resized := fitWithin(img, maxImageEdge)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	key := fmt.Sprintf("products/%s.webp", productID)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// fitWithin scales img down so that neither edge exceeds maxEdge. Images
// already within bounds are returned unchanged.
func fitWithin(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(w)
	if h > w {
		scale = float64(maxEdge) / float64(h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

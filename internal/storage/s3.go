package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/pawpoint/vetclinic/internal/config"
)

const (
	maxPhotoEdge = 800
	webpQuality  = 82
)

// PhotoStore normalizes uploaded pet photos (resize + webp) and keeps
// them in S3.
type PhotoStore struct {
	client *s3.Client
	bucket string
}

func NewPhotoStore(cfg *config.Config) *PhotoStore {
	awsCfg := aws.Config{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &PhotoStore{
		client: client,
		bucket: cfg.S3Bucket,
	}
}

// SavePetPhoto decodes any supported image, scales it down to at most
// maxPhotoEdge on the long side, re-encodes as webp and uploads it.
// Returns the object key to store on the pet.
func (s *PhotoStore) SavePetPhoto(ctx context.Context, petID string, r io.Reader) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode photo: %w", err)
	}

	dst := scaleDown(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	key := fmt.Sprintf("pets/%s.webp", petID)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	return key, nil
}

func scaleDown(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxPhotoEdge && h <= maxPhotoEdge {
		return src
	}

	if w >= h {
		h = h * maxPhotoEdge / w
		w = maxPhotoEdge
	} else {
		w = w * maxPhotoEdge / h
		h = maxPhotoEdge
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

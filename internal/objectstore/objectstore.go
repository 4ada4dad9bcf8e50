// Package objectstore persists uploaded audio and image assets in S3 buckets
// and hands back their public URLs.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// audioContentTypes and imageContentTypes double as the upload allow-lists:
// an extension missing from its table is rejected before any network call.
var audioContentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"aac":  "audio/aac",
	"m4a":  "audio/x-m4a",
	"opus": "audio/ogg",
	"wav":  "audio/wav",
	"flac": "audio/flac",
	"ogg":  "audio/ogg",
}

var imageContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// DefaultThumbnailKey is the shared fallback art stored in the image bucket.
const DefaultThumbnailKey = "generic-album-art.png"

// Upload is a client-submitted file pending storage.
type Upload struct {
	Body     io.Reader
	Filename string
}

// Config holds bucket and credential settings for the storage backend.
type Config struct {
	SoundBucket string
	ImageBucket string
	Region      string
	AccessKey   string
	SecretKey   string
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Client uploads and deletes binary assets, one bucket per asset class.
type Client struct {
	api         s3API
	soundBucket string
	imageBucket string
	region      string
}

// New builds a Client from static credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Client{
		api:         s3.NewFromConfig(awsCfg),
		soundBucket: cfg.SoundBucket,
		imageBucket: cfg.ImageBucket,
		region:      cfg.Region,
	}, nil
}

// UploadAudio stores an audio file under a collision-free name and returns
// its public URL.
func (c *Client) UploadAudio(ctx context.Context, body io.Reader, filename string) (string, error) {
	return c.upload(ctx, c.soundBucket, body, filename, audioContentTypes)
}

// UploadImage stores an image file under a collision-free name and returns
// its public URL.
func (c *Client) UploadImage(ctx context.Context, body io.Reader, filename string) (string, error) {
	return c.upload(ctx, c.imageBucket, body, filename, imageContentTypes)
}

// DeleteAudio removes a previously uploaded audio object. Accepts the public
// URL or the bare key.
func (c *Client) DeleteAudio(ctx context.Context, ref string) error {
	return c.delete(ctx, c.soundBucket, ref)
}

// DeleteImage removes a previously uploaded image object. Accepts the public
// URL or the bare key.
func (c *Client) DeleteImage(ctx context.Context, ref string) error {
	return c.delete(ctx, c.imageBucket, ref)
}

// DefaultThumbnailURL is the shared fallback thumbnail substituted for songs
// and playlists without art of their own.
func (c *Client) DefaultThumbnailURL() string {
	return bucketURL(c.imageBucket, c.region, DefaultThumbnailKey)
}

func (c *Client) upload(ctx context.Context, bucket string, body io.Reader, filename string, contentTypes map[string]string) (string, error) {
	contentType, ok := contentTypes[Extension(filename)]
	if !ok {
		return "", fmt.Errorf("unsupported file extension %q", Extension(filename))
	}

	key := UniqueName(filename)
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", key, err)
	}

	return bucketURL(bucket, c.region, key), nil
}

func (c *Client) delete(ctx context.Context, bucket, ref string) error {
	key := KeyFromRef(ref)
	if key == "" {
		return fmt.Errorf("no object key in %q", ref)
	}

	if _, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// AllowedAudioFile reports whether the filename has a supported audio
// container extension.
func AllowedAudioFile(filename string) bool {
	_, ok := audioContentTypes[Extension(filename)]
	return ok
}

// AllowedImageFile reports whether the filename has a supported raster image
// extension.
func AllowedImageFile(filename string) bool {
	_, ok := imageContentTypes[Extension(filename)]
	return ok
}

// Extension returns the lowercased filename extension without the dot.
func Extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// UniqueName generates a collision-free object key preserving the original
// extension.
func UniqueName(filename string) string {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	if ext := Extension(filename); ext != "" {
		return name + "." + ext
	}
	return name
}

// KeyFromRef extracts the object key from a public URL, or returns ref
// unchanged when it is already a bare key.
func KeyFromRef(ref string) string {
	if !strings.Contains(ref, "/") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

func bucketURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

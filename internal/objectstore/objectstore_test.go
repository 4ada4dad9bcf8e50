package objectstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	putInputs    []*s3.PutObjectInput
	deleteInputs []*s3.DeleteObjectInput
	putErr       error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInputs = append(f.putInputs, params)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteInputs = append(f.deleteInputs, params)
	return &s3.DeleteObjectOutput{}, nil
}

func newTestClient(api s3API) *Client {
	return &Client{
		api:         api,
		soundBucket: "sounds",
		imageBucket: "images",
		region:      "us-east-1",
	}
}

func TestUploadAudio(t *testing.T) {
	fake := &fakeS3{}
	c := newTestClient(fake)

	url, err := c.UploadAudio(context.Background(), strings.NewReader("data"), "track.MP3")
	if err != nil {
		t.Fatalf("UploadAudio error: %v", err)
	}
	if len(fake.putInputs) != 1 {
		t.Fatalf("expected 1 put, got %d", len(fake.putInputs))
	}

	put := fake.putInputs[0]
	if *put.Bucket != "sounds" {
		t.Fatalf("expected sounds bucket, got %q", *put.Bucket)
	}
	if *put.ContentType != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg, got %q", *put.ContentType)
	}
	if !strings.HasSuffix(*put.Key, ".mp3") {
		t.Fatalf("expected lowercased .mp3 key, got %q", *put.Key)
	}
	want := "https://sounds.s3.us-east-1.amazonaws.com/" + *put.Key
	if url != want {
		t.Fatalf("expected %q, got %q", want, url)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	fake := &fakeS3{}
	c := newTestClient(fake)

	_, err := c.UploadAudio(context.Background(), strings.NewReader("data"), "malware.exe")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if len(fake.putInputs) != 0 {
		t.Fatalf("expected no network call, got %d puts", len(fake.putInputs))
	}
}

func TestUploadPropagatesS3Error(t *testing.T) {
	fake := &fakeS3{putErr: errors.New("denied")}
	c := newTestClient(fake)

	_, err := c.UploadImage(context.Background(), strings.NewReader("data"), "cover.png")
	if err == nil {
		t.Fatal("expected error from backend")
	}
}

func TestDeleteImageFromURL(t *testing.T) {
	fake := &fakeS3{}
	c := newTestClient(fake)

	err := c.DeleteImage(context.Background(), "https://images.s3.us-east-1.amazonaws.com/abc123.png")
	if err != nil {
		t.Fatalf("DeleteImage error: %v", err)
	}
	if len(fake.deleteInputs) != 1 || *fake.deleteInputs[0].Key != "abc123.png" {
		t.Fatalf("unexpected delete inputs: %+v", fake.deleteInputs)
	}
}

func TestDefaultThumbnailURL(t *testing.T) {
	c := newTestClient(&fakeS3{})
	want := "https://images.s3.us-east-1.amazonaws.com/" + DefaultThumbnailKey
	if got := c.DefaultThumbnailURL(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"song.mp3", "mp3"},
		{"song.MP3", "mp3"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailing.", ""},
	}
	for _, tc := range tests {
		if got := Extension(tc.filename); got != tc.want {
			t.Errorf("Extension(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestAllowedFiles(t *testing.T) {
	if !AllowedAudioFile("track.flac") {
		t.Error("expected flac to be allowed audio")
	}
	if AllowedAudioFile("track.png") {
		t.Error("expected png to be rejected as audio")
	}
	if !AllowedImageFile("cover.webp") {
		t.Error("expected webp to be allowed image")
	}
	if AllowedImageFile("cover.mp3") {
		t.Error("expected mp3 to be rejected as image")
	}
}

func TestUniqueNamePreservesExtension(t *testing.T) {
	a := UniqueName("song.Mp3")
	b := UniqueName("song.Mp3")
	if a == b {
		t.Fatal("expected distinct names for repeated uploads")
	}
	if !strings.HasSuffix(a, ".mp3") {
		t.Fatalf("expected .mp3 suffix, got %q", a)
	}
	if strings.Contains(a, "-") {
		t.Fatalf("expected dashless key, got %q", a)
	}
}

func TestKeyFromRef(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"https://sounds.s3.us-east-1.amazonaws.com/abc.mp3", "abc.mp3"},
		{"abc.mp3", "abc.mp3"},
		{"https://host/nested/key.png", "nested/key.png"},
	}
	for _, tc := range tests {
		if got := KeyFromRef(tc.ref); got != tc.want {
			t.Errorf("KeyFromRef(%q) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}

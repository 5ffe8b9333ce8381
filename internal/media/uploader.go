// Package media renders product reference images into a set of fixed
// derivative resolutions and uploads them to object storage.
package media

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"shop/admin/internal/storage"
)

const (
	imageIDLength  = 36
	imageIDCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// DerivativeSpec is one target resolution for a derivative. Zero width
// and height mean "no resize, pass the reference image through".
type DerivativeSpec struct {
	Width   int    `mapstructure:"width" json:"width"`
	Height  int    `mapstructure:"height" json:"height"`
	Postfix string `mapstructure:"postfix" json:"postfix"`
}

// DefaultDerivatives is the derivative table for product images.
var DefaultDerivatives = []DerivativeSpec{
	{Width: 1024, Height: 1024, Postfix: "big"},
	{Width: 256, Height: 256, Postfix: "medium"},
	{Width: 10, Height: 10, Postfix: "small"},
}

// UploadError reports which derivative variants failed to upload.
// Variants that did upload are orphaned; the caller retries the whole
// call, which is safe because every call uses a fresh image id.
type UploadError struct {
	Variants []string
	err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for variants [%s]: %v", strings.Join(e.Variants, ", "), e.err)
}

func (e *UploadError) Unwrap() error {
	return e.err
}

// Uploader is the image derivative pipeline: one reference image in, one
// uploaded derivative per spec out, all under a single random image id.
type Uploader struct {
	store   storage.ObjectStorage
	codec   Codec
	specs   []DerivativeSpec
	quality int
}

func NewUploader(store storage.ObjectStorage, codec Codec, specs []DerivativeSpec, quality int) *Uploader {
	if len(specs) == 0 {
		specs = DefaultDerivatives
	}
	return &Uploader{
		store:   store,
		codec:   codec,
		specs:   specs,
		quality: quality,
	}
}

// UploadProductImage renders and uploads every configured derivative of
// the reference image under keyPrefix, concurrently. It returns the
// image id only when every variant uploaded; any failure fails the call
// as a whole with an *UploadError naming the failed variants.
func (u *Uploader) UploadProductImage(ctx context.Context, referenceImage []byte, keyPrefix string) (string, error) {
	imageID := newImageID()

	var (
		mu     sync.Mutex
		failed []string
		merr   *multierror.Error
	)

	var wg sync.WaitGroup
	for _, spec := range u.specs {
		wg.Add(1)
		go func(spec DerivativeSpec) {
			defer wg.Done()

			if err := u.uploadDerivative(ctx, referenceImage, imageID, keyPrefix, spec); err != nil {
				mu.Lock()
				failed = append(failed, spec.Postfix)
				merr = multierror.Append(merr, fmt.Errorf("variant %s: %w", spec.Postfix, err))
				mu.Unlock()
			}
		}(spec)
	}
	wg.Wait()

	if len(failed) > 0 {
		sort.Strings(failed)
		log.Errorf("image %s: %d of %d derivative uploads failed", imageID, len(failed), len(u.specs))
		return "", &UploadError{Variants: failed, err: merr.ErrorOrNil()}
	}

	log.Debugf("image %s: uploaded %d derivatives under %s/", imageID, len(u.specs), keyPrefix)
	return imageID, nil
}

func (u *Uploader) uploadDerivative(ctx context.Context, referenceImage []byte, imageID, keyPrefix string, spec DerivativeSpec) error {
	data := referenceImage
	if spec.Width > 0 && spec.Height > 0 {
		resized, err := u.codec.Resize(data, spec.Width, spec.Height)
		if err != nil {
			return fmt.Errorf("failed to resize to %dx%d: %w", spec.Width, spec.Height, err)
		}
		data = resized
	}

	encoded, err := u.codec.Reencode(data, FormatJPEG, u.quality)
	if err != nil {
		return fmt.Errorf("failed to reencode: %w", err)
	}

	key := fmt.Sprintf("%s/%s_%s.%s", keyPrefix, imageID, spec.Postfix, FormatJPEG.Extension())
	if err := u.store.Put(ctx, key, encoded, FormatJPEG.ContentType()); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return nil
}

// newImageID returns a fresh random identifier. Keys derived from it are
// never overwritten, so a retried upload cannot clobber a partial one.
func newImageID() string {
	buf := make([]byte, imageIDLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	for i := range buf {
		buf[i] = imageIDCharset[int(buf[i])%len(imageIDCharset)]
	}
	return string(buf)
}

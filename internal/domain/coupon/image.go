package coupon

import (
	"strings"
	"time"

	"couponkeeper/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrEmptyImageURL = errs.New("image url cannot be empty")

// Image is an attachment on a coupon. Whenever a coupon has any images,
// exactly one of them is primary; the repository enforces this on insert and
// when the primary flag moves.
type Image struct {
	id        uuid.UUID
	url       string
	fileName  string
	mimeType  string
	isPrimary bool
	createdAt time.Time
}

func NewImage(url, fileName, mimeType string, isPrimary bool, now time.Time) (Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Image{}, ErrEmptyImageURL
	}
	return Image{
		id:        uuid.New(),
		url:       url,
		fileName:  fileName,
		mimeType:  mimeType,
		isPrimary: isPrimary,
		createdAt: now,
	}, nil
}

func ReconstructImage(id uuid.UUID, url, fileName, mimeType string, isPrimary bool, createdAt time.Time) Image {
	return Image{
		id:        id,
		url:       url,
		fileName:  fileName,
		mimeType:  mimeType,
		isPrimary: isPrimary,
		createdAt: createdAt,
	}
}

func (i Image) ID() uuid.UUID        { return i.id }
func (i Image) URL() string          { return i.url }
func (i Image) FileName() string     { return i.fileName }
func (i Image) MimeType() string     { return i.mimeType }
func (i Image) IsPrimary() bool      { return i.isPrimary }
func (i Image) CreatedAt() time.Time { return i.createdAt }

package pack

import (
	"bytes"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// NewS3Outputter uploads tiles to s3://{bucket}/{prefix}/{z}/{x}/{y}.{format}.
// Credentials and region come from the usual AWS shared config.
func NewS3Outputter(bucket string, prefix string, format string) (*s3Outputter, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}

	return &s3Outputter{
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
		prefix:   prefix,
		format:   format,
	}, nil
}

type s3Outputter struct {
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
	format   string
}

func (o *s3Outputter) CreateTiles() error {
	return nil
}

func (o *s3Outputter) Save(tile maptile.Tile, data []byte) error {
	key := path.Join(o.prefix, fmt.Sprintf("%d/%d/%d.%s", tile.Z, tile.X, tile.Y, o.format))

	_, err := o.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("unable to upload s3://%s/%s: %w", o.bucket, key, err)
	}

	return nil
}

func (o *s3Outputter) AssignSpatialMetadata(bounds orb.Bound, minZoom maptile.Zoom, maxZoom maptile.Zoom) error {
	// Loose objects have no shared metadata record
	return nil
}

func (o *s3Outputter) Close() error {
	return nil
}

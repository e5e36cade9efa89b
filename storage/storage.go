// Package storage puts attachment and logo objects in an S3 bucket, or a
// minIO bucket in development. Keys are prefixed by the owning contractor so
// one tenant can never address another tenant's objects.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/trackerp/fleet-api/domain"
)

// ObjectUrl is a client-loadable location of a stored object. Url needs no
// credentials; it is either a public object URL or a pre-signed one.
type ObjectUrl struct {
	Url        string
	Expiration time.Time
}

type bucketConfig struct {
	accessKeyID     string
	secretAccessKey string
	endpoint        string
	region          string
	bucket          string
	disableSSL      bool
	presign         bool
}

func configFromEnv() bucketConfig {
	c := bucketConfig{
		accessKeyID:     domain.Env.AwsAccessKeyID,
		secretAccessKey: domain.Env.AwsSecretAccessKey,
		endpoint:        domain.Env.AwsS3Endpoint,
		region:          domain.Env.AwsRegion,
		bucket:          domain.Env.AwsS3Bucket,
		disableSSL:      domain.Env.AwsS3DisableSSL,
	}

	if domain.Env.GoEnv == domain.EnvDevelopment || domain.Env.GoEnv == domain.EnvTest {
		c.accessKeyID = "abc123"
		c.secretAccessKey = "abcd1234"
	}

	// a non-empty endpoint means minIO is in use, which doesn't support the S3 object URL scheme
	if !strings.HasPrefix(domain.Env.AwsS3ACL, "public") || c.endpoint != "" {
		c.presign = true
	}
	return c
}

func connect() (bucketConfig, *s3.S3, error) {
	config := configFromEnv()
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(config.accessKeyID, config.secretAccessKey, ""),
		Endpoint:         aws.String(config.endpoint),
		Region:           aws.String(config.region),
		DisableSSL:       aws.Bool(config.disableSSL),
		S3ForcePathStyle: aws.Bool(config.endpoint != ""),
	})
	return config, s3.New(sess), err
}

func objectURL(config bucketConfig, svc *s3.S3, key string) (ObjectUrl, error) {
	if !config.presign {
		return ObjectUrl{
			Url:        fmt.Sprintf("https://%s.s3.amazonaws.com/%s", config.bucket, url.PathEscape(key)),
			Expiration: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
		}, nil
	}

	req, _ := svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(config.bucket),
		Key:    aws.String(key),
	})

	lifespan := time.Duration(domain.Env.AwsS3URLLifeMinutes) * time.Minute
	signed, err := req.Presign(lifespan)
	if err != nil {
		return ObjectUrl{}, err
	}

	return ObjectUrl{
		Url: signed,
		// report a time slightly before the actual url expiration to account for delays
		Expiration: time.Now().Add(lifespan - time.Minute),
	}, nil
}

// StoreFile saves content under the given key and returns a loadable URL for it.
func StoreFile(key, contentType string, content []byte) (ObjectUrl, error) {
	config, svc, err := connect()
	if err != nil {
		return ObjectUrl{}, err
	}

	acl := ""
	if !config.presign {
		acl = domain.Env.AwsS3ACL
	}
	if _, err := svc.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(config.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         aws.String(acl),
		Body:        bytes.NewReader(content),
	}); err != nil {
		return ObjectUrl{}, err
	}

	return objectURL(config, svc, key)
}

// GetFileURL returns a loadable URL for a stored object.
func GetFileURL(key string) (ObjectUrl, error) {
	config, svc, err := connect()
	if err != nil {
		return ObjectUrl{}, err
	}

	return objectURL(config, svc, key)
}

// FileExists reports whether an object is stored under the given key.
func FileExists(key string) (bool, error) {
	_, svc, err := connect()
	if err != nil {
		return false, err
	}

	if _, err := svc.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(domain.Env.AwsS3Bucket),
		Key:    aws.String(key),
	}); err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == "NotFound" {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// RemoveFile deletes the object stored under the given key.
func RemoveFile(key string) error {
	_, svc, err := connect()
	if err != nil {
		return err
	}

	_, err = svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(domain.Env.AwsS3Bucket),
		Key:    aws.String(key),
	})
	return err
}

// CreateS3Bucket creates the configured bucket. If the bucket already exists,
// it will not return an error.
func CreateS3Bucket() error {
	env := domain.Env.GoEnv
	if env != domain.EnvTest && env != domain.EnvDevelopment {
		return errors.New("CreateS3Bucket should only be used in test and development")
	}

	_, svc, err := connect()
	if err != nil {
		return err
	}

	if _, err := svc.CreateBucket(&s3.CreateBucketInput{Bucket: &domain.Env.AwsS3Bucket}); err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeBucketAlreadyExists:
			case s3.ErrCodeBucketAlreadyOwnedByYou:
			default:
				return err
			}
		}
	}
	return nil
}

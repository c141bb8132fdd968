package aws

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func GetS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := s3.NewFromConfig(cfg)
	return svc
}

// S3UploadObject streams a payload into the given bucket and returns a
// presigned retrieval URL valid for an hour.
func S3UploadObject(bucketEnv string, key string, body io.Reader, contentType string) (*string, error) {
	bucket := os.Getenv(bucketEnv)
	client := GetS3Client()
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("Could not put object to S3 bucket: %s\n", err.Error())
		return nil, err
	}
	err = s3.NewObjectExistsWaiter(client).Wait(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, time.Minute)
	if err != nil {
		log.Printf("Failed attempt to wait for object %s to exist: %s\n", key, err.Error())
		return nil, err
	}
	log.Printf("Added object '%s' to bucket '%s'", key, bucket)
	return S3PresignObject(bucketEnv, key)
}

// S3PresignObject builds a presigned GET URL for an existing object.
func S3PresignObject(bucketEnv string, key string) (*string, error) {
	bucket := os.Getenv(bucketEnv)
	client := GetS3Client()
	pre := s3.NewPresignClient(client)
	r, err := pre.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = time.Duration(3600 * time.Second)
	})
	if err != nil {
		log.Printf("Could not generate presigned URL for object [%s]: %s\n", key, err.Error())
		return nil, err
	}
	return &r.URL, nil
}

// S3UploadProof stores a proof-of-payment file under the payments bucket.
// Keys follow {attendeeId}/{eventId}/{timestamp}.{ext}.
func S3UploadProof(key string, body io.Reader, contentType string) (*string, error) {
	return S3UploadObject("S3_PAYMENTS_BUCKET", key, body, contentType)
}

// S3UploadPass stores a rendered entry-pass image under the assets bucket.
func S3UploadPass(key string, body io.Reader) (*string, error) {
	return S3UploadObject("S3_ASSETS_BUCKET", key, body, "image/jpeg")
}

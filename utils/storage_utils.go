package utils

import (
	"bytes"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

func getS3Client() (*s3.S3, string, error) {
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET")
	region := os.Getenv("S3_REGION")
	endpoint := os.Getenv("S3_ENDPOINT")
	if accessKey == "" || secretKey == "" || bucket == "" {
		return nil, "", fmt.Errorf("S3 credentials are not configured")
	}
	if region == "" {
		region = "us-east-1"
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Endpoint:    aws.String(endpoint),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, "", err
	}
	return s3.New(sess), bucket, nil
}

// UploadFileToS3 stores an image under folder/fileName and returns the
// public URL.
func UploadFileToS3(file []byte, fileName string, folder string) (string, error) {
	client, bucket, err := getS3Client()
	if err != nil {
		return "", err
	}

	filePath := fmt.Sprintf("%s/%s", folder, fileName)
	_, err = client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(filePath),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String("image/jpeg"),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %v", err)
	}

	return fmt.Sprintf("https://%s%s/%s", bucket, s3PublicSuffix(), filePath), nil
}

func s3PublicSuffix() string {
	if suffix := os.Getenv("S3_PUBLIC_SUFFIX"); suffix != "" {
		return suffix
	}
	return ".s3.amazonaws.com"
}

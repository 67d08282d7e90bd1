package config

import (
	"time"
)

type StorageConfig struct {
	AWS *AWSStorageConfig `yaml:"aws"`
}

type AWSStorageConfig struct {
	Region       string        `yaml:"region"`
	Bucket       string        `yaml:"bucket"`
	PresignedTTL time.Duration `yaml:"presigned_ttl"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		AWS: &AWSStorageConfig{
			Region:       getEnv("AWS_S3_REGION", "us-east-1"),
			Bucket:       getEnv("AWS_S3_BUCKET", "rideguard-recordings"),
			PresignedTTL: getEnvAsDuration("AWS_S3_PRESIGNED_TTL", 30*time.Minute),
		},
	}
}

package config

import "time"

type StorageConfig struct {
	Provider   string              `yaml:"provider"` // local, aws, gcp
	URLExpiry  time.Duration       `yaml:"url_expiry"`
	MaxFileMiB int                 `yaml:"max_file_mib"`
	Local      *LocalStorageConfig `yaml:"local"`
	AWS        *AWSStorageConfig   `yaml:"aws"`
	GCP        *GCPStorageConfig   `yaml:"gcp"`
}

type LocalStorageConfig struct {
	BasePath string `yaml:"base_path"`
}

type AWSStorageConfig struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	CDNDomain string `yaml:"cdn_domain"`
}

type GCPStorageConfig struct {
	ProjectID       string `yaml:"project_id"`
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
	CDNDomain       string `yaml:"cdn_domain"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider:   getEnv("STORAGE_PROVIDER", "local"),
		URLExpiry:  getEnvAsDuration("STORAGE_URL_EXPIRY", time.Hour),
		MaxFileMiB: getEnvAsInt("STORAGE_MAX_FILE_MIB", 5),
		Local: &LocalStorageConfig{
			BasePath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
		},
		AWS: &AWSStorageConfig{
			Region:    getEnv("AWS_S3_REGION", "us-east-1"),
			Bucket:    getEnv("AWS_S3_BUCKET", ""),
			CDNDomain: getEnv("AWS_CLOUDFRONT_DOMAIN", ""),
		},
		GCP: &GCPStorageConfig{
			ProjectID:       getEnv("GCP_PROJECT_ID", ""),
			Bucket:          getEnv("GCP_STORAGE_BUCKET", ""),
			CredentialsFile: getEnv("GCP_CREDENTIALS_FILE", ""),
			CDNDomain:       getEnv("GCP_CDN_DOMAIN", ""),
		},
	}
}

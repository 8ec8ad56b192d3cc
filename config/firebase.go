package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ServiceAccount holds essential fields from your JSON key
type ServiceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// LoadServiceAccount reads the service account key referenced by FIREBASE_CREDENTIALS_FILE.
func LoadServiceAccount(path string) (*ServiceAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account %s: %w", path, err)
	}
	var sa ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("failed to parse service account %s: %w", path, err)
	}
	return &sa, nil
}

// FirebaseProjectID prefers the explicit setting and falls back to the service account.
func FirebaseProjectID() string {
	if AppConfig.FirebaseProjectID != "" {
		return AppConfig.FirebaseProjectID
	}
	sa, err := LoadServiceAccount(AppConfig.FirebaseCredentialsFile)
	if err != nil {
		return ""
	}
	return sa.ProjectID
}

// FirebaseBucketName defaults to the project's appspot bucket.
func FirebaseBucketName() string {
	if AppConfig.FirebaseBucket != "" {
		return AppConfig.FirebaseBucket
	}
	if id := FirebaseProjectID(); id != "" {
		return id + ".appspot.com"
	}
	return ""
}

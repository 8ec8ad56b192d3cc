// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"arone/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	FirebaseApp *firebase.App
	FCMClient   *messaging.Client
)

// FirebaseInit initializes the Firebase App and Messaging client.
func FirebaseInit(ctx context.Context) error {
	if FirebaseApp != nil {
		return nil
	}
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     config.FirebaseProjectID(),
		StorageBucket: config.FirebaseBucketName(),
	}, opt)
	if err != nil {
		return fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}

	FirebaseApp = app
	FCMClient = client
	return nil
}

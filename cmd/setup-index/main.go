// Command setup-index creates the product index with its vector mapping if it
// does not exist yet.
package main

import (
	"context"
	"os"
	"time"

	"github.com/grocerylens/backend/config"
	"github.com/grocerylens/backend/internal/infrastructure/elastic"
	"github.com/grocerylens/backend/internal/infrastructure/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadForIndexSetup()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if err := logging.Configure(logrus.StandardLogger(), cfg.Log, os.Stdout); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	client, err := elastic.NewClient(elastic.Options{
		Addresses:  cfg.Search.Addresses,
		Username:   cfg.Search.Username,
		Password:   cfg.Search.Password,
		APIKey:     cfg.Search.APIKey,
		Index:      cfg.Search.Index,
		Dimensions: cfg.Embedding.Dimensions,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create search client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := client.EnsureIndex(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up product index")
	}

	logger := logrus.WithFields(logrus.Fields{"index": cfg.Search.Index, "dims": cfg.Embedding.Dimensions})
	if created {
		logger.Info("Created product index")
	} else {
		logger.Info("Product index already exists")
	}
}

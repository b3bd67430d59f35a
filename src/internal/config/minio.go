package config

import (
	"negotiation-service/src/internal/gateway/storage"
	"negotiation-service/src/pkg/log"

	"github.com/spf13/viper"
)

func NewMediaUploader(v *viper.Viper, logger log.Log) *storage.MediaUploader {
	uploader, err := storage.NewMediaUploader(v, logger)
	if err != nil {
		panic(err)
	}

	return uploader
}

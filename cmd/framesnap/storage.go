package main

import (
	"context"
	"fmt"

	"github.com/user/framesnap/pkg/adapters/s3filesystem"
	"github.com/user/framesnap/pkg/config"
	"github.com/user/framesnap/pkg/ports"
)

// storage hands out the file system for each output location. Local paths
// go to the local file system; s3://bucket/prefix locations share one
// lazily created S3 client.
type storage struct {
	local  ports.FileSystem
	s3     s3filesystem.Config
	client s3filesystem.ObjectAPI
}

func newStorage(cfg config.Config, local ports.FileSystem) *storage {
	return &storage{
		local: local,
		s3: s3filesystem.Config{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		},
	}
}

// resolve returns the file system for location and the path to use on it.
func (s *storage) resolve(ctx context.Context, location string) (ports.FileSystem, string, error) {
	bucket, key, ok := s3filesystem.ParseLocation(location)
	if !ok {
		return s.local, location, nil
	}
	if s.client == nil {
		client, err := s3filesystem.NewClient(ctx, s.s3)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", location, err)
		}
		s.client = client
	}
	return s3filesystem.New(s.client, bucket), key, nil
}

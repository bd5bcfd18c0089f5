// Package meta loads YAML or JSON documents from any afs supported location,
// expanding ${env.NAME} expressions before decoding.
package meta

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads configuration documents
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a meta service resolving relative URLs against baseURL.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// URL returns URL resolved against the base URL.
func (s *Service) URL(URL string) string {
	if s.baseURL != "" && url.IsRelative(URL) {
		return url.Join(s.baseURL, URL)
	}
	return url.Normalize(URL, file.Scheme)
}

// Load downloads URL and decodes it into dest.  JSON documents decode too,
// being valid YAML.
func (s *Service) Load(ctx context.Context, URL string, dest interface{}) error {
	location := s.URL(URL)
	data, err := s.fs.DownloadWithURL(ctx, location, s.options...)
	if err != nil {
		return fmt.Errorf("failed to load %v: %w", location, err)
	}
	if err = yaml.Unmarshal(expandEnvExpr(data), dest); err != nil {
		return fmt.Errorf("failed to decode %v: %w", location, err)
	}
	return nil
}

package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/dispatchor"
	"gopkg.in/yaml.v3"
)

// Load reads an intake document from any afs supported URL
func Load(ctx context.Context, URL string, options ...storage.Option) (*Document, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download intake %v: %w", URL, err)
	}
	ret, err := Decode(path.Ext(url.Path(URL)), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode intake %v: %w", URL, err)
	}
	return ret, nil
}

// Decode decodes an intake document according to the file extension.
// YAML and JSON documents may reference environment variables as ${env.KEY};
// timings they leave unset keep their defaults.
func Decode(ext string, data []byte) (*Document, error) {
	var ret *Document
	ext = strings.ToLower(ext)
	if ext == ".yaml" || ext == ".yml" || ext == ".json" {
		data = []byte(expandEnv(string(data)))
	}
	switch ext {
	case ".yaml", ".yml":
		ret = &Document{Config: *dispatchor.DefaultConfig()}
		if err := yaml.Unmarshal(data, ret); err != nil {
			return nil, err
		}
	case ".json":
		ret = &Document{Config: *dispatchor.DefaultConfig()}
		if err := json.Unmarshal(data, ret); err != nil {
			return nil, err
		}
	default:
		return Parse(data)
	}
	return ret, nil
}

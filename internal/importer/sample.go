package importer

import (
	"bytes"
	"context"
	_ "embed"
)

// sampleData holds Al-Fatihah, the opening verses of Al-Baqarah and 2:255.
//
//go:embed sample.json
var sampleData []byte

// ImportSample loads the embedded sample data set.
func (im *Importer) ImportSample(ctx context.Context) (*Result, error) {
	return im.ImportJSON(ctx, bytes.NewReader(sampleData))
}

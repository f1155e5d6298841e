// mediactl runs the full client pipeline against a running media bridge:
// local preview, compression policy, transcode, upload, URL resolution.
//
//	mediactl -base http://localhost:8080 -category colors -file swatch.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/oakline/media_bridge/pkg/asseturl"
	"github.com/oakline/media_bridge/pkg/uploader"
)

var (
	base     = flag.String("base", "http://localhost:8080", "media bridge base URL")
	category = flag.String("category", "", "destination category (colors, laminates, hero, ...)")
	file     = flag.String("file", "", "image file to upload")
	list     = flag.Bool("list", false, "list assets in the category instead of uploading")
	dev      = flag.Bool("dev", false, "resolve URLs for a development environment")
)

func main() {
	flag.Parse()

	if *category == "" {
		log.Fatal("-category is required")
	}

	client := uploader.NewClient(*base)
	resolver := asseturl.Resolver{Development: *dev}
	ctx := context.Background()

	if *list {
		assets, err := client.ListAssets(ctx, *category)
		if err != nil {
			log.Fatalf("list assets: %v", err)
		}
		for _, a := range assets {
			fmt.Printf("%s\t%s\t%d bytes\t%s\n", a.FileID, a.FileName, a.FileSize, resolver.Resolve(a.URL))
		}
		return
	}

	if *file == "" {
		log.Fatal("-file is required")
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read file: %v", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(*file))
	if !strings.HasPrefix(mimeType, "image/") {
		log.Fatalf("unsupported file type %q", mimeType)
	}

	pipeline := uploader.NewPipeline(client, resolver)
	pipeline.OnPreview = func(dataURL string) {
		log.Printf("preview ready (%d chars)", len(dataURL))
	}

	result, err := pipeline.Run(ctx, uploader.Input{
		Data:     data,
		MIMEType: mimeType,
		Category: *category,
	})
	if err != nil {
		log.Fatalf("pipeline %s: %v", pipeline.State(), err)
	}

	fmt.Printf("stored: %s\n", result.Asset.Path)
	fmt.Printf("url:    %s\n", result.URL)
}

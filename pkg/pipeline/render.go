package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/bootorder/pkg/cache"
	bio "github.com/matzehuels/bootorder/pkg/io"
	"github.com/matzehuels/bootorder/pkg/observability"
	"github.com/matzehuels/bootorder/pkg/render/nodelink"
)

// Render produces a diagram (DOT or SVG) or the JSON encoding of res.
// Diagrams are cached per manifest hash and options.
func (r *Runner) Render(ctx context.Context, res *Result, opts RenderOptions) ([]byte, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	var key string
	if res.ManifestHash != "" && opts.Format != FormatJSON {
		key = r.Keyer.RenderKey(res.ManifestHash, cache.RenderKeyOpts{
			Format:   opts.Format,
			Unit:     opts.Unit,
			Strict:   res.Strict,
			Detailed: opts.Detailed,
		})
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format)
	data, err := r.render(ctx, res, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	if key != "" {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}
	r.Logger.Debug("rendered plan", "format", opts.Format, "bytes", len(data))
	return data, nil
}

func (r *Runner) render(ctx context.Context, res *Result, opts RenderOptions) ([]byte, error) {
	if opts.Format == FormatJSON {
		var buf bytes.Buffer
		if err := bio.WriteResultJSON(&buf, res); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	g, err := res.Graph()
	if err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(g, nodelink.Options{
		Detailed: opts.Detailed,
		Schedule: res.Schedule,
		Layers:   res.Layers,
		Removed:  res.Removed,
		Unit:     opts.Unit,
	})
	if opts.Format == FormatDOT {
		return []byte(dot), nil
	}
	return nodelink.RenderSVG(ctx, dot)
}

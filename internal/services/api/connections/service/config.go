package service

import (
	"linkmap/internal/core/render"
	"linkmap/internal/platform/config"
)

// Config holds the analysis limits and defaults
type Config struct {
	MaxUploadBytes int64
	MaxRows        int
	PreviewRows    int
	ChartTop       int
}

// DefaultConfig holds the env fallbacks. New also fills a zero upload limit and chart size from it
var DefaultConfig = Config{
	MaxUploadBytes: 10 << 20,
	MaxRows:        100_000,
	PreviewRows:    5,
	ChartTop:       render.DefaultTop,
}

// FromConfig reads MAX_UPLOAD_BYTES, MAX_ROWS, PREVIEW_ROWS and CHART_TOP from c
func FromConfig(c config.Conf) Config {
	return Config{
		MaxUploadBytes: c.MayBytes("MAX_UPLOAD_BYTES", DefaultConfig.MaxUploadBytes),
		MaxRows:        c.MayInt("MAX_ROWS", DefaultConfig.MaxRows),
		PreviewRows:    c.MayInt("PREVIEW_ROWS", DefaultConfig.PreviewRows),
		ChartTop:       c.MayInt("CHART_TOP", DefaultConfig.ChartTop),
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	d := DefaultConfig
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.MaxRows < 0 {
		c.MaxRows = d.MaxRows
	}
	if c.PreviewRows < 0 {
		c.PreviewRows = d.PreviewRows
	}
	if c.ChartTop <= 0 {
		c.ChartTop = d.ChartTop
	}
	return c
}

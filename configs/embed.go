package configs

import (
	"embed"
)

// FS provides embedded default config YAMLs for external usage.
//
//go:embed *.yaml
var FS embed.FS

// DefaultName 是內建設定檔的檔名。
const DefaultName = "default.yaml"

package shaders

import (
	_ "embed"
)

//go:embed fur.wgsl
var FurWGSL string

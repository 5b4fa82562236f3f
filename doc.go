// Package pixfx applies composable, parameterized pixel filters to raster
// images on either the GPU (Ebitengine Kage shaders) or the CPU, with the
// same parameters and visually equivalent results on both.
//
// # Quick start
//
//	backend := pixfx.NewFilterBackend(pixfx.BackendConfig{})
//	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
//	// ... fill img ...
//	res, err := backend.Run(pixfx.Pipeline{
//		pixfx.NewBrightness(0.2),
//		pixfx.NewBlur(0.3),
//	}, pixfx.RunOptions{Image: img})
//
// Inside an Ebitengine game, give the backend a GPU context and request the
// GPU path. The final pass can draw straight into a caller surface:
//
//	backend := pixfx.NewFilterBackend(pixfx.BackendConfig{GPU: pixfx.NewEbitenContext()})
//	res, err := backend.Run(pipeline, pixfx.RunOptions{GPU: true, Source: src, Output: dst})
//
// # Filters
//
// The filter set is closed: [Brightness], [HueRotation], [ColorMatrix],
// [Contrast], [Saturation] and [Blur]. Each implements [CPUFilter] and
// [GPUFilter]. Filters only hold parameters; textures, canvases and compiled
// programs belong to the [FilterBackend].
//
// Filters whose parameters are an identity transform are skipped without
// touching either backend. [Blur] takes two passes, horizontal then
// vertical; the rest take one.
//
// # Backends
//
// A run picks one backend and keeps it for every filter. A filter with no
// implementation for that backend fails the run with
// [CapabilityMismatchError] before any pass starts. Nothing is retried and
// nothing falls back mid-run.
//
// Runs are not safe for concurrent use on one backend. Drive them from the
// rendering loop.
//
// # Descriptors
//
// [ParseDescriptor] builds a filter from its serialized form and
// [FilterBackend.FromObject] also compiles its program. Pipelines load from
// JSON or from TOML files with [LoadPipelineFile]. [TweenFilter] animates a
// filter's main parameter with [gween].
//
// [gween]: https://github.com/tanema/gween
package pixfx

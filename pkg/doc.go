// Package pkg holds the shapereach libraries.
//
// # Overview
//
// shapereach decides whether a layered shape can be built from primitive
// shapes with the in-game machines, and if so, how. The work splits into
// an offline enumeration that records how every reachable shape is first
// produced, and an online lookup that walks those records back to a
// directly creatable base.
//
//  1. [shape] - the shape model: parsing, encoding, stability, fall,
//     separability, quadrant legality and the machine transforms
//  2. [catalog] - stacking templates and the packed (source, method) codec
//  3. [enumerate] - parallel breadth-first search producing the table
//  4. [table] - the sorted binary table on disk, plus its hex text form
//  5. [store] - badger, mongo and in-memory stores serving the same lookups
//  6. [derive] - derivation walker, structural analysis and a caching service
//  7. [render] - derivation charts as DOT, SVG, PDF or PNG
//
// Supporting packages: [cache] (file, redis and null result caches),
// [config] (TOML settings), [observability] (hooks and Prometheus metrics),
// [errors] (coded errors) and [buildinfo].
//
// # Data flow
//
//	enumerate.Run ──► table.WriteFile ──► store.Import (optional)
//	                        │
//	derive.Walker ◄─────────┘ lookups
//	     │
//	derive.Service (cache) ──► CLI, HTTP API, render
//
// # Quick start
//
//	res, _ := enumerate.Run(ctx, enumerate.Options{Width: 4, MaxHeight: 3})
//	_ = table.WriteFile("small.bin", res.Table)
//
//	t, _ := table.Open("small.bin")
//	defer t.Close()
//	w := derive.NewWalker(t, res.Codec, nil)
//	s, _ := shape.Parse("Cu------:CuCuCuCu", 3)
//	out, _ := w.Derive(ctx, s)
//	fmt.Println(out.Verdict, out.Base)
//
// [shape]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/shape
// [catalog]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/catalog
// [enumerate]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/enumerate
// [table]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/table
// [store]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/store
// [derive]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/derive
// [render]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/shapereach/pkg/buildinfo
package pkg

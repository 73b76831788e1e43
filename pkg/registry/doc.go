// Package registry groups web assets into named containers and renders them
// as markup.
//
// # Model
//
//	Registry
//	    │
//	    ├── Container "scripts"  url=/js  path=/public/js  pattern=<script src="{{URL}}"></script>
//	    │       ├── Asset app.js
//	    │       └── Asset vendor/jquery.js (name "jquery")
//	    └── Container "styles"   url=/css path=/public/css pattern=<link rel="stylesheet" href="{{URL}}">
//	            └── Asset site.css
//
// Containers keep the order they were registered in, and assets keep the
// order they were added in. Both orders are observable: auto-detection picks
// the first container whose file pattern matches, lookups return the first
// asset that matches, and PrintAll renders in that order.
//
// # Container references
//
// Operations that accept a ContainerRef treat Any as "resolve automatically"
// (Add, Remove, Print) or "apply to every container" (PrintAll, Assets and
// the setters). In(name) addresses exactly one container.
//
// Resolution is not uniform. Add and Remove fail with
// ErrContainerNotDeterminable when no file pattern matches, while Print falls
// back to searching every container.
//
// # Templates
//
// A print pattern may use four placeholders:
//
//	{{PATH}}  base path joined with the asset path (filesystem)
//	{{URL}}   base URL joined with the asset path
//	{{URI}}   same value as {{URL}}
//	{{NAME}}  asset name
//
// Values are substituted verbatim; nothing is HTML-escaped. Every rendered
// asset ends with a newline.
//
// # Versioning
//
// When a container is versioned the rendered URL carries the modification
// time of the backing file in Unix seconds, e.g. /js/app.js?1718000000. The
// file must exist under the container's base path at render time.
//
// # Concurrency
//
// A Registry is safe for concurrent use. A Container on its own is not; the
// registry guards the containers it owns.
package registry

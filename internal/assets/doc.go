// Package assets provides the LaTeX document templates used by the markup
// renderer. Templates can be loaded from embedded files or a custom directory.
//
// # Loader Architecture
//
//	TemplateLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in templates)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── TemplateResolver  - combines both with custom-first fallback
//
// TemplateResolver is the loader used by the converter. It tries the custom
// directory first and falls back to the embedded template when the requested
// name does not exist there, so a deployment can override only what it needs.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}.tex.tmpl
//
// # Template Syntax
//
// Templates use text/template with << and >> as delimiters, since LaTeX
// itself is full of braces. All values handed to a template are already
// escaped for LaTeX.
//
// # Security
//
// Template names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets

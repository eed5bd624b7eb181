package assets

// TemplateLoader defines the contract for loading LaTeX document templates.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type TemplateLoader interface {
	// LoadTemplate loads a template by name (without the .tex.tmpl extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

package assets

// DefaultTemplateName is the name of the built-in IEEE conference template.
const DefaultTemplateName = "ieee"

// templateExt is appended to template names when resolving files.
const templateExt = ".tex.tmpl"

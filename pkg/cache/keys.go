package cache

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey addresses the layout built from a recipe.
	LayoutKey(recipeHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the build inputs that are not part of the recipe text.
type LayoutKeyOpts struct {
	// Kinds lists the registered device kinds; a registry change invalidates
	// cached layouts.
	Kinds []string `json:"kinds,omitempty"`
	// Base is the directory image paths are resolved against.
	Base string `json:"base,omitempty"`
	// Assets holds content hashes of the images the recipe reads.
	Assets []string `json:"assets,omitempty"`
}

// ArtifactKeyOpts holds the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Scale       float64 `json:"scale,omitempty"`
	Margin      float64 `json:"margin,omitempty"`
	Annotations bool    `json:"annotations,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	MaxDepth    int     `json:"max_depth,omitempty"`
}

// DefaultKeyer builds "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(recipeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", recipeHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

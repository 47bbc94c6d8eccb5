package workspace

// DepKind identifies which manifest section a dependency was declared in.
//
// Kinds are ordered by precedence: when a name appears in several sections
// the section with the lower value wins.
type DepKind uint8

const (
	DepRuntime  DepKind = iota // "dependencies"
	DepOptional                // "optionalDependencies"
	DepDev                     // "devDependencies"
	DepPeer                    // "peerDependencies"
)

// Kinds lists every dependency kind in precedence order.
var Kinds = []DepKind{DepRuntime, DepOptional, DepDev, DepPeer}

// String returns the manifest field name for the kind.
func (k DepKind) String() string {
	switch k {
	case DepRuntime:
		return "dependencies"
	case DepOptional:
		return "optionalDependencies"
	case DepDev:
		return "devDependencies"
	case DepPeer:
		return "peerDependencies"
	}
	return "unknown"
}

// Short returns a compact label used in graph output.
func (k DepKind) Short() string {
	switch k {
	case DepRuntime:
		return "prod"
	case DepOptional:
		return "optional"
	case DepDev:
		return "dev"
	case DepPeer:
		return "peer"
	}
	return "unknown"
}

// Manifest holds the parts of a package.json that matter for graph building.
type Manifest struct {
	Name                 string
	Version              string
	Dependencies         map[string]string
	DevDependencies      map[string]string
	OptionalDependencies map[string]string
	PeerDependencies     map[string]string

	// Workspaces is the package.json "workspaces" field, accepted both as an
	// array and as {"packages": [...]}.
	Workspaces []string
}

// DependenciesOf returns the dependency map declared for kind. The map may be nil.
func (m *Manifest) DependenciesOf(kind DepKind) map[string]string {
	switch kind {
	case DepRuntime:
		return m.Dependencies
	case DepOptional:
		return m.OptionalDependencies
	case DepDev:
		return m.DevDependencies
	case DepPeer:
		return m.PeerDependencies
	}
	return nil
}

// Project is one workspace package. Dir is absolute and cleaned and serves
// as the project's identity everywhere in stackscope.
type Project struct {
	Dir      string
	Manifest Manifest
}

// ID returns the stable identifier of the project.
func (p *Project) ID() string { return p.Dir }

// Name returns the manifest name, which may be empty.
func (p *Project) Name() string { return p.Manifest.Name }

// Version returns the manifest version, which may be empty.
func (p *Project) Version() string { return p.Manifest.Version }

// String renders the project as name@version, falling back to its directory
// for unnamed projects.
func (p *Project) String() string {
	switch {
	case p.Manifest.Name == "":
		return p.Dir
	case p.Manifest.Version == "":
		return p.Manifest.Name
	}
	return p.Manifest.Name + "@" + p.Manifest.Version
}

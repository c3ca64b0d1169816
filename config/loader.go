package config

// Loader fills a target struct from some configuration source.
type Loader interface {
	// Load applies defaults, decodes the source into target and validates it.
	Load(target any) error
	// Watch calls onChange whenever the source changes.
	Watch(onChange func()) error
	// Source names where the configuration came from, or "" when nothing was
	// read and only defaults apply.
	Source() string
}

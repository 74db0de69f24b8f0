package models

// Profile is a saved chapter leader setup the operator can pick from.
type Profile struct {
	// ID is the short key used on the command line.
	ID string `yaml:"id" json:"id"`
	// Leader is the chapter leader full name as it appears in the workbooks.
	Leader string `yaml:"leader" json:"leader"`
	// DataRoot is the folder holding the "YYYY MM" month folders.
	DataRoot string `yaml:"data_root,omitempty" json:"data_root,omitempty"`
	// Template is an optional pptx template override.
	Template string `yaml:"template,omitempty" json:"template,omitempty"`
	// DefaultMonth pins a month folder; empty means the latest one.
	DefaultMonth string `yaml:"default_month,omitempty" json:"default_month,omitempty"`
}

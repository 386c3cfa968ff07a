package cli

// Flags holds all command-line flag values
type Flags struct {
	CfgFile string

	// serve
	Host string
	Port int

	// lookup
	BatchFile string
	OutputDir string
	Grammar   bool
	Refresh   bool
}

// NewFlags creates a new Flags instance. Zero values defer to the configuration file.
func NewFlags() *Flags {
	return &Flags{}
}

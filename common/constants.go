package common

const (
	// BccVersion is the current compiler version.
	BccVersion = "0.2.0"

	// SrcFileExtension is the file extension of a B source file.
	SrcFileExtension = ".b"

	// ProfileFileName is the name of the optional build profile file that is
	// looked up next to the compiled source file.
	ProfileFileName = "bcc.toml"

	// EntryPointName is the name of the function every program must define.
	EntryPointName = "main"

	// WordSize is the size in bytes of the native word.
	WordSize = 8
)

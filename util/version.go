package util

// Ver is set at build time with -ldflags "-X .../util.Ver=...".
var Ver = "development"

func Version() string {
	return Ver
}

package paths

import "path"

// ResourcePath returns the path to a host-tool resource (a saved
// preferences file, a captured region file, a log) inside the module's
// configuration directory, creating that directory if necessary. subDir
// is an optional subdirectory beneath the configuration root; resource is
// joined onto it.
//
// Which directory this resolves to depends on the build: the "release"
// build tag looks in the user's OS-specific configuration directory
// (os.UserConfigDir), while an ordinary development build looks in
// ".coredump" beneath the current working directory.
func ResourcePath(subDir string, resource ...string) (string, error) {
	base, err := getBasePath(subDir)
	if err != nil {
		return "", err
	}

	p := make([]string, 0, len(resource)+1)
	p = append(p, base)
	p = append(p, resource...)
	return path.Join(p...), nil
}

// +build !release

package paths

import (
	"os"
	"path"
)

const coredumpConfigDir = ".coredump"

// the non-release version of getBasePath looks for and if necessary creates
// the coredumpConfigDir (and child directories) in the current working
// directory
func getBasePath(subPth string) (string, error) {
	pth := path.Join(coredumpConfigDir, subPth)

	if _, err := os.Stat(pth); err == nil {
		return pth, nil
	}

	if err := os.MkdirAll(pth, 0700); err != nil {
		return "", err
	}

	return pth, nil
}

package explorer

import (
	"fmt"
	"strings"

	"edshell/internal/errors"
)

// reservedChars may not appear in a file or directory name
const reservedChars = `\/:*?"<>|`

// ValidateName checks a single path component typed by the user
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.NewFileError("name cannot be empty", "", errors.InvalidName, nil)
	case name == "." || name == "..":
		return errors.NewFileError("name is reserved", name, errors.InvalidName, nil)
	}
	if i := strings.IndexAny(name, reservedChars); i >= 0 {
		return errors.NewFileError("name contains a reserved character", name, errors.InvalidName,
			fmt.Errorf("character %q is not allowed", name[i]))
	}
	for _, r := range name {
		if r < 0x20 {
			return errors.NewFileError("name contains a control character", name, errors.InvalidName, nil)
		}
	}
	return nil
}

package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/commentgraph/commentgraph/internal/types"
)

// LoadUserList reads the target-user list: one username per line, UTF-8,
// surrounding whitespace ignored, blank lines skipped. A missing file or a
// file with no usable entries is the fatal precondition of a run.
func LoadUserList(path string) ([]string, error) {
	names, err := LoadNameList(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrNoUserList, path)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrEmptyUserList, path)
	}
	return names, nil
}

// LoadNameList reads a generic one-name-per-line file. Used for the
// redaction include/exclude lists, where a missing file just means the
// list is empty — callers decide whether absence is fatal.
func LoadNameList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

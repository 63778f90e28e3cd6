package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tonimelisma/spreport/internal/tree"
)

const unlimitedKeyword = "unlimited"

// depthValue is a pflag.Value for the traversal bound. It accepts a
// non-negative integer, -1, or "unlimited".
type depthValue int

func newDepthValue(v int) *depthValue {
	d := depthValue(v)

	return &d
}

func (d *depthValue) String() string {
	if int(*d) == tree.UnlimitedDepth {
		return unlimitedKeyword
	}

	return strconv.Itoa(int(*d))
}

func (d *depthValue) Set(s string) error {
	v, err := parseDepth(s)
	if err != nil {
		return err
	}

	*d = depthValue(v)

	return nil
}

func (d *depthValue) Type() string {
	return "depth"
}

func parseDepth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, unlimitedKeyword) {
		return tree.UnlimitedDepth, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("Illegal maximal traversal depth value, must be >= 0 or -1 for unlimited (is '%s')", s) //nolint:staticcheck // user-facing message
	}

	if v < tree.UnlimitedDepth {
		return 0, fmt.Errorf("Illegal maximal traversal depth value, must be >= 0 or -1 for unlimited (is '%d')", v) //nolint:staticcheck // user-facing message
	}

	return v, nil
}
